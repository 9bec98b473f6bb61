package services

import (
	"context"

	"github.com/anonto42/gammy/backend/internal/events"
	"go.uber.org/zap"
)

// publish emits an event and only logs failures.
func publish(ctx context.Context, pub events.Publisher, logger *zap.Logger, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event", zap.String("type", e.Type), zap.String("event_id", e.ID), zap.Error(err))
	}
}
