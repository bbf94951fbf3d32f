package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/config"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/queue"
)

// EmailSender delivers a single outbound message. Implementations report
// failure but callers never let it fail the primary operation.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LoggedEmailSender writes outbound mail to the log instead of a mailbox.
// The corpus has no SMTP relay; delivery is an operational concern handled
// outside this service.
type LoggedEmailSender struct {
	From   string
	Logger *zap.Logger
}

// Send logs the message at info level.
func (s *LoggedEmailSender) Send(_ context.Context, to, subject, body string) error {
	s.Logger.Info("outbound email",
		zap.String("from", s.From),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_len", len(body)))
	return nil
}

// NotificationService turns domain events into outbound email, WhatsApp
// deep links and reminder-queue messages. All delivery is best-effort.
type NotificationService struct {
	email     EmailSender
	publisher *queue.Publisher
	logger    *zap.Logger
	cfg       config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(email EmailSender, publisher *queue.Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{email: email, publisher: publisher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to the notifying event types.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventRecoveryRequested, n.handleRecoveryRequested)
	dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
	dispatcher.Subscribe(events.EventReminderDue, n.handleReminderDue)
}

func (n *NotificationService) handleRecoveryRequested(ctx context.Context, event events.Event) error {
	email, _ := event.Payload["email"].(string)
	token, _ := event.Payload["token"].(string)
	if email == "" || token == "" {
		return nil
	}
	body := fmt.Sprintf("Use the following code to reset your password. It expires in 1 hour.\n\n%s\n", token)
	return n.email.Send(ctx, email, "Password recovery", body)
}

func (n *NotificationService) handlePaymentRecorded(ctx context.Context, event events.Event) error {
	n.logger.Info("payment recorded",
		zap.String("charge_id", event.EntityID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleReminderDue(ctx context.Context, event events.Event) error {
	phone, _ := event.Payload["phone"].(string)
	if phone != "" {
		link := n.WhatsAppLink(phone, reminderMessage(event.Payload))
		n.logger.Info("reminder due",
			zap.String("client_id", event.EntityID),
			zap.String("whatsapp_link", link))
	}

	if n.publisher != nil {
		if err := n.publisher.Publish(ctx, event); err != nil {
			n.logger.Warn("reminder enqueue failed", zap.Error(err))
		}
	}
	return nil
}

// WhatsAppLink builds a wa.me deep link with the message prefilled. The
// phone is reduced to digits; numbers without a country prefix get the
// configured default.
func (n *NotificationService) WhatsAppLink(phone, message string) string {
	digits := digitsOnly(phone)
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, n.cfg.WhatsAppCountryCode) {
		digits = n.cfg.WhatsAppCountryCode + digits
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func reminderMessage(payload map[string]any) string {
	due, _ := payload["due_date"].(string)
	var cents int64
	switch v := payload["amount_cents"].(type) {
	case int64:
		cents = v
	case float64:
		cents = int64(v)
	}
	return fmt.Sprintf("Hello! A payment of %d.%02d is due on %s. Please contact us to settle it.",
		cents/100, cents%100, due)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
