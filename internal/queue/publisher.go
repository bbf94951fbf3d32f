package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/config"
)

// Publisher pushes reminder messages onto a durable AMQP queue so an
// external sender can deliver them. The queue is optional: a nil Publisher
// is safe to call and does nothing.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *zap.Logger
}

// NewPublisher dials the broker and declares the queue. Returns nil (no
// error) when no URL is configured.
func NewPublisher(cfg config.QueueConfig, logger *zap.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		logger.Info("AMQP_URL not set; reminder queue disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := channel.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("connected to amqp", zap.String("queue", cfg.QueueName))
	return &Publisher{conn: conn, channel: channel, queue: cfg.QueueName, logger: logger}, nil
}

// Publish marshals the message and enqueues it persistently. Errors are
// returned for logging only; callers treat delivery as fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, message any) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
