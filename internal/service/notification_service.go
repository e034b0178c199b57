package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/config"
	"github.com/simplificateurs/advisory-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppointmentReceived, n.handleAppointmentReceived)
	n.dispatcher.Subscribe(events.EventLeadAssigned, n.handleLeadAssigned)
	n.dispatcher.Subscribe(events.EventTeamMemberCreated, n.handleTeamMemberChanged)
	n.dispatcher.Subscribe(events.EventTeamMemberUpdated, n.handleTeamMemberChanged)
	n.dispatcher.Subscribe(events.EventTeamMemberDeleted, n.handleTeamMemberChanged)
}

func (n *NotificationService) handleAppointmentReceived(ctx context.Context, event events.Event) error {
	n.logger.Info("AppointmentReceived", zap.String("appointment_id", event.Subject), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeadAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("LeadAssigned", zap.String("appointment_id", event.Subject), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTeamMemberChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamMemberChanged", zap.String("member_id", event.Subject), zap.String("event_type", string(event.Type)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.Subject),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.Subject),
		zap.String("event_type", string(event.Type)))
}
