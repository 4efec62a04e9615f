package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notifier consumes the order.changed queue and invokes a callback for
// every decoded event.  It runs a reconnect loop with exponential
// backoff and exposes a connected flag the board endpoint reports as
// its live indicator: when false, clients know their snapshot may be
// stale and the callback is not firing.
type Notifier struct {
	url       string
	onChange  func(OrderChangedEvent)
	connected atomic.Bool
}

// NewNotifier returns a notifier that calls onChange for each event.
// Start must be called to begin consuming.
func NewNotifier(url string, onChange func(OrderChangedEvent)) *Notifier {
	return &Notifier{url: url, onChange: onChange}
}

// Connected reports whether the notifier currently holds a live
// consumer channel to the broker.
func (n *Notifier) Connected() bool { return n.connected.Load() }

// Start runs the consume loop until the process exits.  With no broker
// configured it returns immediately and Connected stays false.  Run it
// in its own goroutine.
func (n *Notifier) Start() {
	if n.url == "" {
		log.Printf("order-notifier: no broker configured, live updates disabled")
		return
	}
	backoff := time.Second
	for {
		conn, err := amqp.Dial(n.url)
		if err != nil {
			log.Printf("order-notifier: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := n.consumeLoop(conn); err != nil {
			log.Printf("order-notifier: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func (n *Notifier) consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("order-notifier: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	n.connected.Store(true)
	defer n.connected.Store(false)

	for d := range msgs {
		if err := n.handleMessage(d.Body); err != nil {
			log.Printf("order-notifier: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (n *Notifier) handleMessage(body []byte) error {
	var ev OrderChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if n.onChange != nil {
		n.onChange(ev)
	}
	return nil
}
