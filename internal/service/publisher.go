package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/restaurant-pos/internal/queue"
)

// Publisher receives lifecycle events after a mutation commits.  Failures are
// logged by the caller and never undo the mutation.
type Publisher interface {
	Publish(ctx context.Context, ev q.LifecycleEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.LifecycleEvent) error { return nil }

// MultiPublisher fans an event out to several sinks and returns the first
// error after trying all of them.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, ev q.LifecycleEvent) error {
	var first error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// AMQPPublisher publishes lifecycle events to the pos.lifecycle topic
// exchange.  The connection is opened lazily and re-dialled after a failure.
// Messages are marked as persistent.
type AMQPPublisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for the broker at url.  No connection
// is made until the first Publish.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			log.Printf("rabbitmq: dial failed: %v", err)
			return nil, err
		}
		p.conn = conn
	}
	ch, err := p.conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return nil, err
	}
	// Idempotent; durable so the exchange survives broker restarts.
	if err := ch.ExchangeDeclare(q.ExchangeName, "topic", true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: exchange declare failed: %v", err)
		_ = ch.Close()
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

// Publish sends ev with its routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.LifecycleEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, q.ExchangeName, ev.RoutingKey(), false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		_ = ch.Close()
		p.ch = nil
		return err
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}
