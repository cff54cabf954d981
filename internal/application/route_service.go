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
	"github.com/wastenot/service-pickup/internal/routeplanner"
)

// AddressInput is the raw address supplied by a driver for route planning.
type AddressInput struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     int    `json:"zip"`
}

// PlanRouteRequest asks for an optimized route from the driver's start
// location over all pickups awaiting routing, ending at the destination.
type PlanRouteRequest struct {
	Start       AddressInput `json:"start" binding:"required"`
	Destination AddressInput `json:"destination" binding:"required"`
}

// RouteDTO is the response representation of a planned route.
type RouteDTO struct {
	RouteID         uuid.UUID               `json:"route_id"`
	DriverID        uuid.UUID               `json:"driver_id"`
	Stops           []routeplanner.Waypoint `json:"stops"`
	TotalDistanceKm float64                 `json:"total_distance_km"`
	PickupIDs       []uuid.UUID             `json:"pickup_ids"`
}

// RouteService orchestrates route planning over pending pickups.
type RouteService struct {
	repo     pickupDomain.Repository
	geocoder address.Geocoder
	planner  routeplanner.Planner
	producer EventPublisher
	logger   *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	repo pickupDomain.Repository,
	geocoder address.Geocoder,
	planner routeplanner.Planner,
	producer EventPublisher,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		repo:     repo,
		geocoder: geocoder,
		planner:  planner,
		producer: producer,
		logger:   logger,
	}
}

// PlanRoute geocodes the driver's endpoints, asks the external planner for a
// visiting order over every requested pickup, marks those pickups routed and
// publishes RoutePlanned.
func (s *RouteService) PlanRoute(ctx context.Context, driverID uuid.UUID, req PlanRouteRequest) (*RouteDTO, error) {
	start, err := address.New(ctx, s.geocoder, req.Start.Street1, req.Start.Street2, req.Start.City, req.Start.State, req.Start.Zip)
	if err != nil {
		return nil, err
	}

	destination, err := address.New(ctx, s.geocoder, req.Destination.Street1, req.Destination.Street2, req.Destination.City, req.Destination.State, req.Destination.Zip)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.ListByStatus(ctx, pickupDomain.StatusRequested)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending pickups: %w", err)
	}
	if len(pending) == 0 {
		return nil, domain.NewNotFoundError("Pickups awaiting routing", "none")
	}

	planReq := routeplanner.PlanRequest{
		Start:       toWaypoint("start", start),
		Destination: toWaypoint("destination", destination),
		Stops:       make([]routeplanner.Waypoint, len(pending)),
	}
	for i, p := range pending {
		planReq.Stops[i] = toWaypoint(p.LocationName(), p.Address())
	}

	route, err := s.planner.PlanRoute(ctx, planReq)
	if err != nil {
		return nil, domain.NewResolutionError(fmt.Sprintf("route planner unavailable: %v", err))
	}

	pickupIDs := make([]uuid.UUID, 0, len(pending))
	for _, p := range pending {
		if err := p.MarkRouted(); err != nil {
			return nil, err
		}
		p.IncrementVersion()
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
		pickupIDs = append(pickupIDs, p.ID())
	}

	routeID := uuid.New()
	evt := events.RoutePlannedEvent{
		RouteID:         routeID,
		DriverID:        driverID,
		PickupIDs:       pickupIDs,
		StopCount:       len(route.Stops),
		TotalDistanceKm: route.TotalDistanceKm,
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRouteEvents, events.RoutePlanned, evt)

	s.logger.Info("route planned",
		zap.String("route_id", routeID.String()),
		zap.String("driver_id", driverID.String()),
		zap.Int("pickups", len(pickupIDs)),
		zap.Float64("distance_km", route.TotalDistanceKm),
	)

	return &RouteDTO{
		RouteID:         routeID,
		DriverID:        driverID,
		Stops:           route.Stops,
		TotalDistanceKm: route.TotalDistanceKm,
		PickupIDs:       pickupIDs,
	}, nil
}

func toWaypoint(name string, addr *address.Address) routeplanner.Waypoint {
	return routeplanner.Waypoint{
		Name:      name,
		Latitude:  addr.Coordinates().Latitude,
		Longitude: addr.Coordinates().Longitude,
	}
}

func (s *RouteService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
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
