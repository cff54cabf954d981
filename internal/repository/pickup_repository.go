package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wastenot/service-pickup/internal/domain/address"
	pickupDomain "github.com/wastenot/service-pickup/internal/domain/pickup"
	"github.com/wastenot/service-pickup/internal/platform/domain"
)

// PickupModel is the GORM model for the pickups table.
type PickupModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference    string          `gorm:"uniqueIndex;not null;size:20"`
	ResidentID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	LocationName string          `gorm:"not null;size:120"`
	Address      json.RawMessage `gorm:"type:jsonb;not null"`
	Status       string          `gorm:"not null;size:20;index"`
	Notes        string          `gorm:"size:1000"`
	RoutedAt     *time.Time      `gorm:""`
	CollectedAt  *time.Time      `gorm:""`
	CancelledAt  *time.Time      `gorm:""`
	CancelNote   string          `gorm:"size:500"`
	Version      int64           `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PickupModel) TableName() string {
	return "pickups"
}

// GormPickupRepository is the GORM-based implementation of pickup.Repository.
type GormPickupRepository struct {
	db *gorm.DB
}

// NewGormPickupRepository creates a new GormPickupRepository.
func NewGormPickupRepository(db *gorm.DB) *GormPickupRepository {
	return &GormPickupRepository{db: db}
}

// FindByID retrieves a pickup by its unique identifier.
func (r *GormPickupRepository) FindByID(ctx context.Context, id uuid.UUID) (*pickupDomain.Pickup, error) {
	var model PickupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pickup", id.String())
		}
		return nil, fmt.Errorf("failed to find pickup by ID: %w", err)
	}
	return toDomainPickup(&model)
}

// FindByReference retrieves a pickup by its reference.
func (r *GormPickupRepository) FindByReference(ctx context.Context, reference string) (*pickupDomain.Pickup, error) {
	var model PickupModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pickup", reference)
		}
		return nil, fmt.Errorf("failed to find pickup by reference: %w", err)
	}
	return toDomainPickup(&model)
}

// FindByResidentID retrieves pickups for a resident with pagination.
func (r *GormPickupRepository) FindByResidentID(ctx context.Context, residentID uuid.UUID, page, limit int) ([]*pickupDomain.Pickup, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PickupModel{}).Where("resident_id = ?", residentID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resident pickups: %w", err)
	}

	var models []PickupModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find resident pickups: %w", err)
	}

	pickups, err := toDomainPickups(models)
	if err != nil {
		return nil, 0, err
	}
	return pickups, total, nil
}

// ListByStatus retrieves all pickups currently in the given status, oldest first.
func (r *GormPickupRepository) ListByStatus(ctx context.Context, status pickupDomain.Status) ([]*pickupDomain.Pickup, error) {
	var models []PickupModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list pickups by status: %w", err)
	}
	return toDomainPickups(models)
}

// ListAll retrieves all pickups with pagination (dispatcher).
func (r *GormPickupRepository) ListAll(ctx context.Context, page, limit int) ([]*pickupDomain.Pickup, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PickupModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pickups: %w", err)
	}

	var models []PickupModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pickups: %w", err)
	}

	pickups, err := toDomainPickups(models)
	if err != nil {
		return nil, 0, err
	}
	return pickups, total, nil
}

// CountByStatus returns pickup counts grouped by status (dispatcher).
func (r *GormPickupRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&PickupModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new pickup.
func (r *GormPickupRepository) Save(ctx context.Context, p *pickupDomain.Pickup) error {
	model, err := toPickupModel(p)
	if err != nil {
		return fmt.Errorf("failed to convert pickup to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save pickup: %w", err)
	}
	return nil
}

// Update persists changes to an existing pickup with optimistic locking.
func (r *GormPickupRepository) Update(ctx context.Context, p *pickupDomain.Pickup) error {
	model, err := toPickupModel(p)
	if err != nil {
		return fmt.Errorf("failed to convert pickup to model: %w", err)
	}

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before Update).
	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&PickupModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":       model.Status,
			"address":      model.Address,
			"notes":        model.Notes,
			"routed_at":    model.RoutedAt,
			"collected_at": model.CollectedAt,
			"cancelled_at": model.CancelledAt,
			"cancel_note":  model.CancelNote,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update pickup: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("pickup was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toPickupModel(p *pickupDomain.Pickup) (*PickupModel, error) {
	addrJSON, err := p.Address().Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pickup address: %w", err)
	}

	return &PickupModel{
		ID:           p.ID(),
		Reference:    p.Reference(),
		ResidentID:   p.ResidentID(),
		LocationName: p.LocationName(),
		Address:      json.RawMessage(addrJSON),
		Status:       string(p.Status()),
		Notes:        p.Notes(),
		RoutedAt:     p.RoutedAt(),
		CollectedAt:  p.CollectedAt(),
		CancelledAt:  p.CancelledAt(),
		CancelNote:   p.CancelNote(),
		Version:      p.Version(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}, nil
}

func toDomainPickup(m *PickupModel) (*pickupDomain.Pickup, error) {
	// The stored encoding was produced by Serialize on a validated address,
	// so the trusted parse path applies.
	addr, err := address.Parse(string(m.Address))
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored pickup address: %w", err)
	}

	status, err := pickupDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return pickupDomain.Reconstruct(
		m.ID,
		m.Reference,
		m.ResidentID,
		m.LocationName,
		addr,
		status,
		m.Notes,
		m.RoutedAt,
		m.CollectedAt,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainPickups(models []PickupModel) ([]*pickupDomain.Pickup, error) {
	pickups := make([]*pickupDomain.Pickup, len(models))
	for i, m := range models {
		p, err := toDomainPickup(&m)
		if err != nil {
			return nil, err
		}
		pickups[i] = p
	}
	return pickups, nil
}
