package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const orderQueueName = "order.changed"

// Publisher emits order.changed events.  Each publish dials the broker,
// declares the durable queue and closes the connection again: mutations
// are rare enough that connection churn is acceptable and a dead broker
// never wedges a held channel.  Errors are logged and returned so the
// request flow can ignore them.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher for the given AMQP URL.  An empty
// URL disables publishing entirely.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// Publish sends one event to the order.changed queue, marked
// persistent.  With no broker configured it is a silent no-op.
func (p *Publisher) Publish(ctx context.Context, event OrderChangedEvent) error {
	if p.url == "" {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", orderQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
