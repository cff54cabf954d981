package pickup

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/wastenot/service-pickup/internal/domain/address"
	"github.com/wastenot/service-pickup/internal/platform/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Pickup is the aggregate root for a scheduled food-rescue pickup: a named
// location with a resolved address, owned by a resident, moving through the
// requested/routed/collected lifecycle.
type Pickup struct {
	id           uuid.UUID
	reference    string
	residentID   uuid.UUID
	locationName string
	addr         *address.Address
	status       Status
	notes        string

	routedAt    *time.Time
	collectedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a pickup reference in the format "PU-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate pickup reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "PU-" + string(result), nil
}

// NewPickup creates a new Pickup with status=requested. The address must
// already be constructed (validated and geocoded).
func NewPickup(residentID uuid.UUID, locationName string, addr *address.Address, notes string) (*Pickup, error) {
	if residentID == uuid.Nil {
		return nil, domain.NewValidationError("resident ID is required")
	}
	if locationName == "" {
		return nil, domain.NewValidationError("location name is required")
	}
	if addr == nil {
		return nil, domain.NewValidationError("pickup address is required")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Pickup{
		id:           uuid.New(),
		reference:    reference,
		residentID:   residentID,
		locationName: locationName,
		addr:         addr,
		status:       StatusRequested,
		notes:        notes,
		version:      1,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a Pickup from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	reference string,
	residentID uuid.UUID,
	locationName string,
	addr *address.Address,
	status Status,
	notes string,
	routedAt *time.Time,
	collectedAt *time.Time,
	cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Pickup {
	return &Pickup{
		id:           id,
		reference:    reference,
		residentID:   residentID,
		locationName: locationName,
		addr:         addr,
		status:       status,
		notes:        notes,
		routedAt:     routedAt,
		collectedAt:  collectedAt,
		cancelledAt:  cancelledAt,
		cancelNote:   cancelNote,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the pickup's unique identifier.
func (p *Pickup) ID() uuid.UUID { return p.id }

// Reference returns the human-readable pickup reference.
func (p *Pickup) Reference() string { return p.reference }

// ResidentID returns the scheduling resident's user ID.
func (p *Pickup) ResidentID() uuid.UUID { return p.residentID }

// LocationName returns the caller-supplied name for the pickup location.
func (p *Pickup) LocationName() string { return p.locationName }

// Address returns the resolved pickup address.
func (p *Pickup) Address() *address.Address { return p.addr }

// Status returns the current pickup status.
func (p *Pickup) Status() Status { return p.status }

// Notes returns any additional notes for the pickup.
func (p *Pickup) Notes() string { return p.notes }

// RoutedAt returns the time the pickup was added to a route, or nil.
func (p *Pickup) RoutedAt() *time.Time { return p.routedAt }

// CollectedAt returns the time the pickup was collected, or nil.
func (p *Pickup) CollectedAt() *time.Time { return p.collectedAt }

// CancelledAt returns the time the pickup was cancelled, or nil.
func (p *Pickup) CancelledAt() *time.Time { return p.cancelledAt }

// CancelNote returns the cancellation reason.
func (p *Pickup) CancelNote() string { return p.cancelNote }

// Version returns the entity version for optimistic locking.
func (p *Pickup) Version() int64 { return p.version }

// CreatedAt returns the creation timestamp.
func (p *Pickup) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (p *Pickup) UpdatedAt() time.Time { return p.updatedAt }

// --- Behavior ---

// MarkRouted transitions the pickup from requested to routed.
func (p *Pickup) MarkRouted() error {
	if !p.status.CanTransitionTo(StatusRouted) {
		return domain.NewInvalidStateError(string(p.status), string(StatusRouted))
	}
	now := time.Now().UTC()
	p.status = StatusRouted
	p.routedAt = &now
	p.updatedAt = now
	return nil
}

// MarkCollected transitions the pickup from routed to collected.
func (p *Pickup) MarkCollected() error {
	if !p.status.CanTransitionTo(StatusCollected) {
		return domain.NewInvalidStateError(string(p.status), string(StatusCollected))
	}
	now := time.Now().UTC()
	p.status = StatusCollected
	p.collectedAt = &now
	p.updatedAt = now
	return nil
}

// Cancel transitions the pickup to cancelled if it is not in a terminal state.
func (p *Pickup) Cancel(reason string) error {
	if !p.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(p.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	p.status = StatusCancelled
	p.cancelNote = reason
	p.cancelledAt = &now
	p.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Pickup) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
