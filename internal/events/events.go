package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics used by the pickup service.
const (
	TopicPickupEvents = "pickup.events"
	TopicRouteEvents  = "route.events"
)

// Event types published and consumed by the pickup service.
const (
	PickupRequested = "pickup.requested"
	PickupCancelled = "pickup.cancelled"
	PickupCollected = "pickup.collected"
	RoutePlanned    = "route.planned"
	RouteCompleted  = "route.completed"
)

// PickupRequestedEvent is published when a resident schedules a pickup.
type PickupRequestedEvent struct {
	PickupID     uuid.UUID `json:"pickup_id"`
	Reference    string    `json:"reference"`
	ResidentID   uuid.UUID `json:"resident_id"`
	LocationName string    `json:"location_name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PickupCancelledEvent is published when a pickup is cancelled.
type PickupCancelledEvent struct {
	PickupID    uuid.UUID `json:"pickup_id"`
	Reference   string    `json:"reference"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PickupCollectedEvent is published when a pickup is marked collected.
type PickupCollectedEvent struct {
	PickupID   uuid.UUID `json:"pickup_id"`
	Reference  string    `json:"reference"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutePlannedEvent is published when a driver receives an optimized route.
type RoutePlannedEvent struct {
	RouteID         uuid.UUID   `json:"route_id"`
	DriverID        uuid.UUID   `json:"driver_id"`
	PickupIDs       []uuid.UUID `json:"pickup_ids"`
	StopCount       int         `json:"stop_count"`
	TotalDistanceKm float64     `json:"total_distance_km"`
	OccurredAt      time.Time   `json:"occurred_at"`
}

// RouteCompletedEvent is consumed from the driver tracking service when a
// route has been driven to completion.
type RouteCompletedEvent struct {
	RouteID     uuid.UUID   `json:"route_id"`
	DriverID    uuid.UUID   `json:"driver_id"`
	PickupIDs   []uuid.UUID `json:"pickup_ids"`
	CompletedAt time.Time   `json:"completed_at"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
