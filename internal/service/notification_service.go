package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/buyer-leads-service/internal/events"
)

// NotificationService surfaces lead lifecycle events in the logs. It is the
// single consumer of the dispatcher in this deployment.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLeadCreated, n.handleLeadEvent)
	n.dispatcher.Subscribe(events.EventLeadUpdated, n.handleLeadEvent)
	n.dispatcher.Subscribe(events.EventLeadDeleted, n.handleLeadEvent)
	n.dispatcher.Subscribe(events.EventLeadImported, n.handleLeadEvent)
}

func (n *NotificationService) handleLeadEvent(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("lead_id", event.LeadID),
		zap.String("actor", event.Actor.Email),
		zap.Any("payload", event.Payload),
	)
	return nil
}
