package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var ErrUnknownEventKind = errors.New("unknown event kind")

// Circuit breaker states
const (
	StateClosed int32 = iota
	StateHalfOpen
	StateOpen
)

const (
	maxFailures = 5
	openTimeout = 30 * time.Second
)

// Client publishes and consumes transaction event messages over a durable
// direct exchange. Publishing runs behind a circuit breaker so a broker
// outage degrades to skipped events instead of slow requests.
type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = channel
	c.mu.Unlock()

	if err := c.setup(); err != nil {
		c.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	return nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// exponentialBackoff returns the reconnect delay for the given attempt,
// capped at the circuit open timeout.
func exponentialBackoff(attempt int) time.Duration {
	d := time.Second << uint(attempt)
	if d > openTimeout || d <= 0 {
		return openTimeout
	}
	return d
}

// isConnectionError reports whether the error looks like a broken broker
// connection rather than a protocol or application failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range []string{
		"connection refused",
		"connection closed",
		"unexpected EOF",
		"broken pipe",
		"use of closed network connection",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.StoreInt32(&c.state, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

// PublishTransactionEvent publishes a transaction event message.
func (c *Client) PublishTransactionEvent(ctx context.Context, msg *TransactionEventMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("circuit breaker is open, refusing to publish")
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		c.recordFailure()
		return fmt.Errorf("not connected to broker")
	}

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			go c.reconnect()
		}
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	slog.InfoContext(ctx, "Published transaction event",
		"event_kind", msg.Kind,
		"transaction_id", msg.Transaction.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// reconnect retries the broker connection with exponential backoff until it
// succeeds or the failure threshold opens the circuit.
func (c *Client) reconnect() {
	for attempt := 0; ; attempt++ {
		if atomic.LoadInt32(&c.state) == StateOpen {
			return
		}
		time.Sleep(exponentialBackoff(attempt))
		if err := c.connect(); err != nil {
			c.recordFailure()
			slog.Warn("AMQP reconnect failed", "attempt", attempt, "error", err)
			continue
		}
		c.recordSuccess()
		slog.Info("AMQP reconnected", "attempt", attempt)
		return
	}
}

// ConsumeTransactionEvents consumes event messages until ctx is done,
// invoking handler per message with manual ack/nack.
func (c *Client) ConsumeTransactionEvents(ctx context.Context, handler func(context.Context, *TransactionEventMessage) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return fmt.Errorf("not connected to broker")
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming transaction events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := TransactionEventMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal message", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle message",
					"error", err,
					"event_kind", msg.Kind,
					"transaction_id", msg.Transaction.ID)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
			slog.DebugContext(ctx, "Processed transaction event",
				"event_kind", msg.Kind,
				"transaction_id", msg.Transaction.ID)
		}
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
