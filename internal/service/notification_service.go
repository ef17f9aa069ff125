package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/resume-service/internal/config"
	"github.com/spec-kit/resume-service/internal/events"
)

// Notification channels.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// Notification is one outbound message derived from a domain event.
type Notification struct {
	Channel    string
	Target     string
	EventType  events.EventType
	ResourceID int64
	Payload    any
}

// NotificationSink delivers notifications to an external channel.
type NotificationSink interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogSink records notifications in the service log. It is the default sink
// until a mail or webhook transport is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink builds a sink writing to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: loggerOrNop(logger)}
}

func (s *LogSink) Deliver(_ context.Context, n Notification) error {
	s.logger.Info("notification delivered",
		zap.String("channel", n.Channel),
		zap.String("target", n.Target),
		zap.String("event_type", string(n.EventType)),
		zap.Int64("resource_id", n.ResourceID))
	return nil
}

// NotificationService turns domain events into notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	sink       NotificationSink
}

// NewNotificationService creates the service with a LogSink.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	logger = loggerOrNop(logger)
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		sink:       NewLogSink(logger),
	}
}

// WithSink replaces the delivery sink.
func (n *NotificationService) WithSink(sink NotificationSink) *NotificationService {
	if sink != nil {
		n.sink = sink
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventResumeCreated, n.handleResumeCreated)
	n.dispatcher.Subscribe(events.EventResumeStatusChanged, n.handleResumeStatusChanged)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
	n.dispatcher.Subscribe(events.EventUserSignedIn, n.handleUserSignedIn)
}

func (n *NotificationService) handleResumeCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ResumeCreated", zap.Int64("resume_id", event.ResourceID), zap.Any("payload", event.Payload))
	return n.notify(ctx, ChannelWebhook, n.cfg.WebhookURL, event)
}

func (n *NotificationService) handleResumeStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ResumeStatusChanged", zap.Int64("resume_id", event.ResourceID), zap.Any("payload", event.Payload))
	if err := n.notify(ctx, ChannelEmail, n.cfg.EmailFrom, event); err != nil {
		return err
	}
	return n.notify(ctx, ChannelWebhook, n.cfg.WebhookURL, event)
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info("CommentAdded", zap.Int64("resume_id", event.ResourceID), zap.Any("payload", event.Payload))
	return n.notify(ctx, ChannelEmail, n.cfg.EmailFrom, event)
}

func (n *NotificationService) handleUserSignedIn(_ context.Context, event events.Event) error {
	n.logger.Info("UserSignedIn", zap.Int64("user_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

// notify skips channels without a configured target.
func (n *NotificationService) notify(ctx context.Context, channel, target string, event events.Event) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	return n.sink.Deliver(ctx, Notification{
		Channel:    channel,
		Target:     target,
		EventType:  event.Type,
		ResourceID: event.ResourceID,
		Payload:    event.Payload,
	})
}
