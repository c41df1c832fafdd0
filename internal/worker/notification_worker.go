// Package worker runs the background consumer that drains queued
// lifecycle events and hands them to the notification service.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/service"
)

const popTimeout = 5 * time.Second

// NotificationWorker drains the Redis notification queue.
type NotificationWorker struct {
	client        *redis.Client
	queueKey      string
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(client *redis.Client, queueKey string, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		client:        client,
		queueKey:      queueKey,
		notifications: notifications,
		logger:        logger,
	}
}

// Run blocks consuming the queue until the context is cancelled.
func (w *NotificationWorker) Run(ctx context.Context) {
	w.logger.Info("notification worker started", zap.String("queue", w.queueKey))
	for {
		result, err := w.client.BRPop(ctx, popTimeout, w.queueKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				w.logger.Info("notification worker stopped")
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			w.logger.Warn("notification queue pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		// BRPop returns [key, value].
		if len(result) != 2 {
			continue
		}

		var event events.Event
		if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
			w.logger.Warn("malformed queued event dropped", zap.Error(err))
			continue
		}
		if err := w.notifications.Handle(ctx, event); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
}
