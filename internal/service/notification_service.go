package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/events"
)

// NotificationService delivers rendered lifecycle events to the
// configured channels. Delivery is best effort; a failed channel is
// logged and never blocks the caller.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// Handle processes one lifecycle event. Satisfies events.Handler.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	n.logger.Info("work order event",
		zap.String("event_kind", string(event.Kind)),
		zap.String("work_order_id", event.WorkOrderID),
		zap.String("sequence_key", event.SequenceKey),
		zap.String("message", event.Message))

	switch event.Kind {
	case events.KindAssigned, events.KindReassigned, events.KindRejected, events.KindScheduled, events.KindReworked:
		n.sendPushNotificationStub(ctx, event)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendPushNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.PushGatewayURL) == "" {
		return
	}
	n.logger.Debug("sendPushNotificationStub",
		zap.String("gateway", n.cfg.PushGatewayURL),
		zap.String("work_order_id", event.WorkOrderID),
		zap.String("event_kind", string(event.Kind)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("work_order_id", event.WorkOrderID),
		zap.String("event_kind", string(event.Kind)))
}
