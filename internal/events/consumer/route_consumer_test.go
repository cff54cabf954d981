package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/application"
	"github.com/wastenot/service-pickup/internal/domain/address"
	"github.com/wastenot/service-pickup/internal/events"
	pickupDomain "github.com/wastenot/service-pickup/internal/domain/pickup"
	"github.com/wastenot/service-pickup/internal/platform/domain"
	"github.com/wastenot/service-pickup/internal/platform/kafka"
)

// consumerRepo is an in-memory pickup.Repository for consumer tests.
type consumerRepo struct {
	pickups map[uuid.UUID]*pickupDomain.Pickup
}

func newConsumerRepo() *consumerRepo {
	return &consumerRepo{pickups: make(map[uuid.UUID]*pickupDomain.Pickup)}
}

func (r *consumerRepo) FindByID(_ context.Context, id uuid.UUID) (*pickupDomain.Pickup, error) {
	p, ok := r.pickups[id]
	if !ok {
		return nil, domain.NewNotFoundError("Pickup", id.String())
	}
	return p, nil
}

func (r *consumerRepo) FindByReference(_ context.Context, reference string) (*pickupDomain.Pickup, error) {
	for _, p := range r.pickups {
		if p.Reference() == reference {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("Pickup", reference)
}

func (r *consumerRepo) FindByResidentID(_ context.Context, residentID uuid.UUID, page, limit int) ([]*pickupDomain.Pickup, int64, error) {
	return nil, 0, nil
}

func (r *consumerRepo) ListByStatus(_ context.Context, status pickupDomain.Status) ([]*pickupDomain.Pickup, error) {
	return nil, nil
}

func (r *consumerRepo) ListAll(_ context.Context, page, limit int) ([]*pickupDomain.Pickup, int64, error) {
	return nil, 0, nil
}

func (r *consumerRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	return nil, nil
}

func (r *consumerRepo) Save(_ context.Context, p *pickupDomain.Pickup) error {
	r.pickups[p.ID()] = p
	return nil
}

func (r *consumerRepo) Update(_ context.Context, p *pickupDomain.Pickup) error {
	if _, ok := r.pickups[p.ID()]; !ok {
		return domain.NewNotFoundError("Pickup", p.ID().String())
	}
	r.pickups[p.ID()] = p
	return nil
}

// nopPublisher drops published events.
type nopPublisher struct{}

func (nopPublisher) PublishEvent(_ context.Context, _ string, _ kafka.CloudEvent) error {
	return nil
}

func seedPickup(t *testing.T, repo *consumerRepo, status pickupDomain.Status) uuid.UUID {
	t.Helper()
	addr := address.Reconstruct("123 Main St", "", "Troy", "NY", 12180,
		address.Coordinates{Latitude: 42.7284, Longitude: -73.6918})

	now := time.Now().UTC()
	var routedAt, collectedAt *time.Time
	if status == pickupDomain.StatusRouted || status == pickupDomain.StatusCollected {
		at := now.Add(-10 * time.Minute)
		routedAt = &at
	}
	if status == pickupDomain.StatusCollected {
		at := now.Add(-5 * time.Minute)
		collectedAt = &at
	}

	id := uuid.New()
	p := pickupDomain.Reconstruct(
		id, "PU-TEST01", uuid.New(), "Sage Dining Hall", addr, status,
		"", routedAt, collectedAt, nil, "", 2, now, now,
	)
	require.NoError(t, repo.Save(context.Background(), p))
	return id
}

func newConsumerFixture(repo *consumerRepo) *RouteEventConsumer {
	svc := application.NewPickupService(repo, nil, nopPublisher{}, zap.NewNop())
	return NewRouteEventConsumer([]string{"localhost:9092"}, "test-group", svc, zap.NewNop())
}

func routeCompletedMessage(t *testing.T, pickupIDs ...uuid.UUID) kafkago.Message {
	t.Helper()
	evt := events.RouteCompletedEvent{
		RouteID:     uuid.New(),
		DriverID:    uuid.New(),
		PickupIDs:   pickupIDs,
		CompletedAt: time.Now().UTC(),
		OccurredAt:  time.Now().UTC(),
	}
	ce, err := kafka.NewCloudEvent("service-route", events.RouteCompleted, evt)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleRouteCompleted(t *testing.T) {
	repo := newConsumerRepo()
	consumer := newConsumerFixture(repo)
	pickupID := seedPickup(t, repo, pickupDomain.StatusRouted)

	err := consumer.handleMessage(context.Background(), routeCompletedMessage(t, pickupID))
	require.NoError(t, err)

	assert.Equal(t, pickupDomain.StatusCollected, repo.pickups[pickupID].Status())
}

func TestHandleRouteCompleted_SkipsAlreadyCollected(t *testing.T) {
	repo := newConsumerRepo()
	consumer := newConsumerFixture(repo)

	// Redelivery scenario: the first pickup was collected before the
	// previous handling attempt failed partway through.
	collectedID := seedPickup(t, repo, pickupDomain.StatusCollected)
	routedID := seedPickup(t, repo, pickupDomain.StatusRouted)

	err := consumer.handleMessage(context.Background(), routeCompletedMessage(t, collectedID, routedID))
	require.NoError(t, err)

	assert.Equal(t, pickupDomain.StatusCollected, repo.pickups[collectedID].Status())
	assert.Equal(t, pickupDomain.StatusCollected, repo.pickups[routedID].Status())
}

func TestHandleRouteCompleted_UnknownPickupRetries(t *testing.T) {
	repo := newConsumerRepo()
	consumer := newConsumerFixture(repo)

	err := consumer.handleMessage(context.Background(), routeCompletedMessage(t, uuid.New()))
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeNotFound))
}

func TestHandleMessage_IgnoresMalformedAndUnknownTypes(t *testing.T) {
	repo := newConsumerRepo()
	consumer := newConsumerFixture(repo)

	require.NoError(t, consumer.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")}))

	ce, err := kafka.NewCloudEvent("service-pickup", events.RoutePlanned, events.RoutePlannedEvent{RouteID: uuid.New()})
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	require.NoError(t, consumer.handleMessage(context.Background(), kafkago.Message{Value: raw}))
}
