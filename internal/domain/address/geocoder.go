package address

import "context"

// Coordinates is a geographic position, latitude first.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder resolves a free-text address query to coordinates.
// Implementations are expected to block on the network; callers control
// cancellation through the context.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Coordinates, error)
}
