package routeplanner

import "context"

// Waypoint is a named location handed to the route optimizer.
type Waypoint struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlanRequest asks the optimizer for a visiting order over the stops,
// starting at Start and ending at Destination.
type PlanRequest struct {
	Start       Waypoint   `json:"start"`
	Destination Waypoint   `json:"destination"`
	Stops       []Waypoint `json:"stops"`
}

// Route is the optimizer's answer: the full ordered sequence of waypoints
// from start to destination and the total driving distance.
type Route struct {
	Stops           []Waypoint `json:"stops"`
	TotalDistanceKm float64    `json:"total_distance_km"`
}

// Planner is the route-optimization collaborator. The optimization itself
// lives in an external service; this boundary treats it as opaque.
type Planner interface {
	PlanRoute(ctx context.Context, req PlanRequest) (*Route, error)
}
