package pickup

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for pickup aggregates.
type Repository interface {
	// FindByID retrieves a pickup by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Pickup, error)

	// FindByReference retrieves a pickup by its human-readable reference.
	FindByReference(ctx context.Context, reference string) (*Pickup, error)

	// FindByResidentID retrieves pickups belonging to a resident with pagination.
	FindByResidentID(ctx context.Context, residentID uuid.UUID, page, limit int) ([]*Pickup, int64, error)

	// ListByStatus retrieves all pickups currently in the given status.
	ListByStatus(ctx context.Context, status Status) ([]*Pickup, error)

	// ListAll retrieves all pickups with pagination (dispatcher).
	ListAll(ctx context.Context, page, limit int) ([]*Pickup, int64, error)

	// CountByStatus returns pickup counts grouped by status (dispatcher).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new pickup.
	Save(ctx context.Context, pickup *Pickup) error

	// Update persists changes to an existing pickup with optimistic locking.
	Update(ctx context.Context, pickup *Pickup) error
}
