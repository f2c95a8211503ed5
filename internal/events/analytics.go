// Package events publishes estimation analytics to Kafka. Publishing is
// fire-and-forget: a broker failure is logged and never reaches the caller.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/application"
	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

const (
	// TopicEstimateEvents carries estimation analytics.
	TopicEstimateEvents = "estimate.events"

	// EstimateCompleted is emitted once per settled estimation request.
	EstimateCompleted = "estimate.completed"

	eventSource = "service-estimates"
)

// EstimateCompletedEvent is the payload for EstimateCompleted.
type EstimateCompletedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	Providers  []string  `json:"providers"`
	DistanceKm *float64  `json:"distance_km,omitempty"`
	Source     string    `json:"source"`
	Available  int       `json:"available"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EstimateAnalytics publishes estimation events through a Kafka producer.
type EstimateAnalytics struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEstimateAnalytics creates the analytics publisher.
func NewEstimateAnalytics(producer *Producer, logger *zap.Logger) *EstimateAnalytics {
	return &EstimateAnalytics{producer: producer, logger: logger}
}

// EstimateCompleted publishes the completion event for one request.
func (a *EstimateAnalytics) EstimateCompleted(ctx context.Context, result *application.EstimateResult, providers []estimate.ProviderID) {
	ids := make([]string, len(providers))
	for i, id := range providers {
		ids[i] = string(id)
	}

	available := 0
	for _, row := range result.Results {
		if row.Available() {
			available++
		}
	}

	evt := EstimateCompletedEvent{
		RequestID:  result.RequestID,
		Providers:  ids,
		DistanceKm: result.DistanceKm,
		Source:     result.Source,
		Available:  available,
		OccurredAt: time.Now().UTC(),
	}

	cloudEvent, err := NewCloudEvent(eventSource, EstimateCompleted, evt)
	if err != nil {
		a.logger.Error("failed to create cloud event",
			zap.String("event_type", EstimateCompleted),
			zap.Error(err),
		)
		return
	}

	if err := a.producer.PublishEvent(ctx, TopicEstimateEvents, result.RequestID.String(), cloudEvent); err != nil {
		a.logger.Error("failed to publish event",
			zap.String("topic", TopicEstimateEvents),
			zap.String("event_type", EstimateCompleted),
			zap.Error(err),
		)
	}
}
