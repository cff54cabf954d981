package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/wastenot/service-pickup/internal/application"
	"github.com/wastenot/service-pickup/internal/events"
	"github.com/wastenot/service-pickup/internal/platform/domain"
	"github.com/wastenot/service-pickup/internal/platform/kafka"
)

// RouteEventConsumer listens to route events and marks routed pickups
// collected once a driver completes the route.
type RouteEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.PickupService
	logger   *zap.Logger
}

// NewRouteEventConsumer creates a new RouteEventConsumer.
func NewRouteEventConsumer(
	brokers []string,
	groupID string,
	service *application.PickupService,
	logger *zap.Logger,
) *RouteEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicRouteEvents, logger)
	return &RouteEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming route events. This blocks until the context is cancelled.
func (c *RouteEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RouteEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RouteEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from route topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.RouteCompleted:
		return c.handleRouteCompleted(ctx, cloudEvent)
	default:
		// RoutePlanned events published by this service also land here.
		c.logger.Debug("ignoring unhandled route event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *RouteEventConsumer) handleRouteCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.RouteCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RouteCompletedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing route completed event",
		zap.String("route_id", evt.RouteID.String()),
		zap.Int("pickups", len(evt.PickupIDs)),
	)

	for _, pickupID := range evt.PickupIDs {
		if _, err := c.service.MarkCollected(ctx, pickupID); err != nil {
			// A pickup already collected on a previous delivery of this
			// message must not block the rest of the route.
			if domain.IsCode(err, domain.ErrCodeInvalidState) {
				c.logger.Warn("pickup already collected, skipping",
					zap.String("pickup_id", pickupID.String()),
				)
				continue
			}
			c.logger.Error("failed to mark pickup collected after route completion",
				zap.String("pickup_id", pickupID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	c.logger.Info("pickups collected after route completion",
		zap.String("route_id", evt.RouteID.String()),
	)
	return nil
}
