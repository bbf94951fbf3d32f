package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/config"
)

func newTestNotificationService() *NotificationService {
	logger := zap.NewNop()
	return NewNotificationService(
		&LoggedEmailSender{From: "noreply@example.com", Logger: logger},
		nil,
		logger,
		config.NotificationConfig{WhatsAppCountryCode: "55"},
	)
}

func TestWhatsAppLink(t *testing.T) {
	n := newTestNotificationService()

	assert.Equal(t, "https://wa.me/5511999887766", n.WhatsAppLink("(11) 99988-7766", ""))
	assert.Equal(t, "https://wa.me/5511999887766", n.WhatsAppLink("+55 11 99988-7766", ""))
	assert.Equal(t,
		"https://wa.me/5511999887766?text=hello+there",
		n.WhatsAppLink("11999887766", "hello there"))
}

func TestWhatsAppLinkEmptyPhone(t *testing.T) {
	n := newTestNotificationService()
	assert.Empty(t, n.WhatsAppLink("", "hello"))
	assert.Empty(t, n.WhatsAppLink("n/a", "hello"))
}

func TestLoggedEmailSenderNeverFails(t *testing.T) {
	sender := &LoggedEmailSender{From: "noreply@example.com", Logger: zap.NewNop()}
	assert.NoError(t, sender.Send(context.Background(), "someone@example.com", "subject", "body"))
}
