package geocode

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/domain/address"
)

const cacheKeyPrefix = "geocode:"

// CachedGeocoder is a read-through Redis cache in front of another geocoder.
// Identical queries within the TTL are served without an upstream call.
// Cache failures are logged and fall through to the upstream geocoder.
type CachedGeocoder struct {
	next   address.Geocoder
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGeocoder wraps next with a Redis cache using the given TTL.
func NewCachedGeocoder(next address.Geocoder, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, client: client, ttl: ttl, logger: logger}
}

type cachedCoordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Geocode returns cached coordinates for the query when available, otherwise
// resolves upstream and stores the result.
func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (address.Coordinates, error) {
	key := cacheKeyPrefix + query

	raw, err := g.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedCoordinates
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return address.Coordinates{Latitude: cached.Latitude, Longitude: cached.Longitude}, nil
		}
		g.logger.Warn("discarding corrupt geocode cache entry", zap.String("key", key))
	} else if err != redis.Nil {
		g.logger.Warn("geocode cache read failed", zap.Error(err))
	}

	coords, err := g.next.Geocode(ctx, query)
	if err != nil {
		return address.Coordinates{}, err
	}

	payload, err := json.Marshal(cachedCoordinates{Latitude: coords.Latitude, Longitude: coords.Longitude})
	if err == nil {
		if setErr := g.client.Set(ctx, key, payload, g.ttl).Err(); setErr != nil {
			g.logger.Warn("geocode cache write failed", zap.Error(setErr))
		}
	}

	return coords, nil
}
