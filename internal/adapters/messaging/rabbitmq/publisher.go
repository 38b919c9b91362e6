// Package rabbitmq implements the EventPublisher port on top of a RabbitMQ
// topic exchange. Each logical topic is used as the routing key.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	portssvc "github.com/corebank/bankledger/internal/core/ports/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultExchange = "bankledger.events"

// Publisher maintains a singleton connection and channel to the broker.
// Publish reopens the channel (and connection) when the broker dropped them.
type Publisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel
	logger   *slog.Logger
}

var _ portssvc.EventPublisher = (*Publisher)(nil)

// NewPublisher connects to the broker and declares the durable topic exchange.
func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = defaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
		logger:   logger,
	}
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}

	return p, nil
}

// ensureChannel dials and opens a channel if either is missing or closed.
// Callers must not hold p.mu.
func (p *Publisher) ensureChannel() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		p.conn = conn
		p.channel = nil
	}

	if p.channel == nil || p.channel.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			return fmt.Errorf("failed to open rabbitmq channel: %w", err)
		}
		if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
		}
		p.channel = ch
	}

	return nil
}

// Publish sends the payload to the exchange with the topic as routing key.
// Messages are persistent so a broker restart does not drop them.
func (p *Publisher) Publish(ctx context.Context, topic string, payload string) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}

	p.mu.Lock()
	ch := p.channel
	p.mu.Unlock()

	err := ch.PublishWithContext(ctx,
		p.exchange,
		topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(payload),
		},
	)
	if err != nil {
		p.logger.Error("failed to publish event", slog.String("topic", topic), slog.String("error", err.Error()))
		return fmt.Errorf("failed to publish to topic %s: %w", topic, err)
	}

	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil && !p.channel.IsClosed() {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("failed to close rabbitmq channel", slog.String("error", err.Error()))
		}
	}
	p.channel = nil

	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("failed to close rabbitmq connection: %w", err)
		}
	}
	p.conn = nil

	return nil
}
