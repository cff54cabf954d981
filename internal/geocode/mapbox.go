package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/domain/address"
)

const defaultBaseURL = "https://api.mapbox.com"

// MapboxClient resolves addresses through the Mapbox forward-geocoding API.
// It implements address.Geocoder.
type MapboxClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewMapboxClient creates a MapboxClient. An empty baseURL selects the
// public Mapbox endpoint; tests point it at a local server.
func NewMapboxClient(baseURL, accessToken string, logger *zap.Logger) *MapboxClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &MapboxClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// mapboxResponse is the subset of the geocoding payload the service consumes.
type mapboxResponse struct {
	Features []struct {
		// Center is [longitude, latitude], per the Mapbox API.
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Geocode resolves a free-text query to coordinates using the first feature
// returned by Mapbox. The [lng, lat] center is reordered to latitude-first.
func (c *MapboxClient) Geocode(ctx context.Context, query string) (address.Coordinates, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return address.Coordinates{}, fmt.Errorf("failed to build geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return address.Coordinates{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return address.Coordinates{}, fmt.Errorf("geocoding request returned status %d", resp.StatusCode)
	}

	var payload mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return address.Coordinates{}, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return address.Coordinates{}, fmt.Errorf("no geocoding result for %q", query)
	}

	center := payload.Features[0].Center
	coords := address.Coordinates{Latitude: center[1], Longitude: center[0]}

	c.logger.Debug("address geocoded",
		zap.String("query", query),
		zap.Float64("lat", coords.Latitude),
		zap.Float64("lng", coords.Longitude),
	)
	return coords, nil
}
