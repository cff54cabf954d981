package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/domain/address"
	pickupDomain "github.com/wastenot/service-pickup/internal/domain/pickup"
	"github.com/wastenot/service-pickup/internal/events"
	"github.com/wastenot/service-pickup/internal/platform/domain"
	"github.com/wastenot/service-pickup/internal/platform/kafka"
)

const eventSource = "service-pickup"

// EventPublisher publishes CloudEvents; satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// SchedulePickupRequest holds the data needed to schedule a pickup. Address
// fields are deliberately unvalidated here: the address entity owns
// validation so its error messages reach the caller unchanged.
type SchedulePickupRequest struct {
	LocationName string `json:"location_name" binding:"required"`
	Street1      string `json:"street1"`
	Street2      string `json:"street2"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          int    `json:"zip"`
	Notes        string `json:"notes"`
}

// PickupDTO is the response representation of a pickup.
type PickupDTO struct {
	ID               uuid.UUID        `json:"id"`
	Reference        string           `json:"reference"`
	ResidentID       uuid.UUID        `json:"resident_id"`
	LocationName     string           `json:"location_name"`
	Address          *address.Address `json:"address"`
	FormattedAddress string           `json:"formatted_address"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	RoutedAt         *time.Time       `json:"routed_at,omitempty"`
	CollectedAt      *time.Time       `json:"collected_at,omitempty"`
	CancelledAt      *time.Time       `json:"cancelled_at,omitempty"`
	CancelNote       string           `json:"cancel_note,omitempty"`
	Version          int64            `json:"version"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PickupService is the application service orchestrating pickup use cases.
type PickupService struct {
	repo     pickupDomain.Repository
	geocoder address.Geocoder
	producer EventPublisher
	logger   *zap.Logger
}

// NewPickupService creates a new PickupService.
func NewPickupService(
	repo pickupDomain.Repository,
	geocoder address.Geocoder,
	producer EventPublisher,
	logger *zap.Logger,
) *PickupService {
	return &PickupService{
		repo:     repo,
		geocoder: geocoder,
		producer: producer,
		logger:   logger,
	}
}

// SchedulePickup validates and geocodes the address, persists the pickup and
// publishes PickupRequested.
func (s *PickupService) SchedulePickup(ctx context.Context, residentID uuid.UUID, req SchedulePickupRequest) (*PickupDTO, error) {
	addr, err := address.New(ctx, s.geocoder, req.Street1, req.Street2, req.City, req.State, req.Zip)
	if err != nil {
		return nil, err
	}

	p, err := pickupDomain.NewPickup(residentID, req.LocationName, addr, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save pickup: %w", err)
	}

	evt := events.PickupRequestedEvent{
		PickupID:     p.ID(),
		Reference:    p.Reference(),
		ResidentID:   p.ResidentID(),
		LocationName: p.LocationName(),
		Latitude:     addr.Coordinates().Latitude,
		Longitude:    addr.Coordinates().Longitude,
		OccurredAt:   time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicPickupEvents, events.PickupRequested, evt)

	result := toPickupDTO(p)
	return &result, nil
}

// GetPickup retrieves a single pickup by ID, enforcing ownership for residents.
func (s *PickupService) GetPickup(ctx context.Context, pickupID, callerID uuid.UUID, callerIsDispatcher bool) (*PickupDTO, error) {
	p, err := s.repo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}
	if !callerIsDispatcher && p.ResidentID() != callerID {
		return nil, domain.NewForbiddenError("pickup does not belong to this user")
	}
	result := toPickupDTO(p)
	return &result, nil
}

// GetResidentPickups retrieves paginated pickups for a resident.
func (s *PickupService) GetResidentPickups(ctx context.Context, residentID uuid.UUID, page, limit int) (*domain.PaginatedResult[PickupDTO], error) {
	pickups, total, err := s.repo.FindByResidentID(ctx, residentID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PickupDTO, len(pickups))
	for i, p := range pickups {
		dtos[i] = toPickupDTO(p)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// CancelPickup cancels a pickup that is not yet in a terminal state.
func (s *PickupService) CancelPickup(ctx context.Context, pickupID, cancelledBy uuid.UUID, reason string) (*PickupDTO, error) {
	p, err := s.repo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if p.ResidentID() != cancelledBy {
		return nil, domain.NewForbiddenError("pickup does not belong to this user")
	}

	if err := p.Cancel(reason); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	evt := events.PickupCancelledEvent{
		PickupID:    p.ID(),
		Reference:   p.Reference(),
		CancelledBy: cancelledBy,
		Reason:      reason,
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicPickupEvents, events.PickupCancelled, evt)

	result := toPickupDTO(p)
	return &result, nil
}

// MarkCollected transitions a routed pickup to collected and publishes
// PickupCollected. Called when a driver finishes a route.
func (s *PickupService) MarkCollected(ctx context.Context, pickupID uuid.UUID) (*PickupDTO, error) {
	p, err := s.repo.FindByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if err := p.MarkCollected(); err != nil {
		return nil, err
	}

	p.IncrementVersion()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	evt := events.PickupCollectedEvent{
		PickupID:   p.ID(),
		Reference:  p.Reference(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicPickupEvents, events.PickupCollected, evt)

	result := toPickupDTO(p)
	return &result, nil
}

// --- Dispatcher methods ---

// PickupStatsDTO holds pickup statistics for the dispatcher dashboard.
type PickupStatsDTO struct {
	TotalPickups int64            `json:"total_pickups"`
	ByStatus     map[string]int64 `json:"by_status"`
}

// ListAllPickups returns a paginated list of all pickups (dispatcher).
func (s *PickupService) ListAllPickups(ctx context.Context, page, limit int) ([]PickupDTO, int64, error) {
	pickups, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pickups: %w", err)
	}

	dtos := make([]PickupDTO, len(pickups))
	for i, p := range pickups {
		dtos[i] = toPickupDTO(p)
	}
	return dtos, total, nil
}

// GetPickupStats returns aggregate pickup statistics (dispatcher).
func (s *PickupService) GetPickupStats(ctx context.Context) (*PickupStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pickup stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &PickupStatsDTO{
		TotalPickups: total,
		ByStatus:     counts,
	}, nil
}

// --- Helpers ---

func toPickupDTO(p *pickupDomain.Pickup) PickupDTO {
	return PickupDTO{
		ID:               p.ID(),
		Reference:        p.Reference(),
		ResidentID:       p.ResidentID(),
		LocationName:     p.LocationName(),
		Address:          p.Address(),
		FormattedAddress: p.Address().String(),
		Status:           string(p.Status()),
		Notes:            p.Notes(),
		RoutedAt:         p.RoutedAt(),
		CollectedAt:      p.CollectedAt(),
		CancelledAt:      p.CancelledAt(),
		CancelNote:       p.CancelNote(),
		Version:          p.Version(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func (s *PickupService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
