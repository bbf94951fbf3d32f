package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/repository"
)

// ReminderWorker periodically scans for installments coming due and emits
// reminder events. Delivery is handled downstream by the notification
// service; a failed scan waits for the next tick.
type ReminderWorker struct {
	agreements repository.AgreementRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	interval   time.Duration
	horizon    time.Duration
}

// NewReminderWorker builds the worker. Defaults: scan hourly, remind for
// installments due within 48 hours.
func NewReminderWorker(agreements repository.AgreementRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		agreements: agreements,
		dispatcher: dispatcher,
		logger:     logger,
		interval:   time.Hour,
		horizon:    48 * time.Hour,
	}
}

// Run blocks until the context is cancelled. Call it in a goroutine.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *ReminderWorker) scan(ctx context.Context) {
	now := time.Now()
	due, err := w.agreements.ListDueInstallments(ctx, now, now.Add(w.horizon))
	if err != nil {
		w.logger.Warn("reminder scan failed", zap.Error(err))
		return
	}

	for _, item := range due {
		w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReminderDue,
			Entity:    "client",
			EntityID:  item.ClientID,
			Timestamp: now,
			Payload:   events.ReminderDuePayload(item.ClientID, item.ClientPhone, item.Installment.AmountCents, item.Installment.DueDate),
		})
	}

	if len(due) > 0 {
		w.logger.Info("reminders emitted", zap.Int("count", len(due)))
	}
}
