package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const retryHeader = "x-retry-count"

// AMQPQueue publishes JSON messages to a direct exchange and consumes one
// durable queue bound to it.
type AMQPQueue struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	mu       sync.Mutex
	exchange string
	queue    string
	log      *zap.Logger

	MaxRetries int
}

func DialAMQP(url, exchange, queueName string, log *zap.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q := &AMQPQueue{conn: conn, ch: ch, exchange: exchange, queue: queueName, log: log.Named("amqp"), MaxRetries: 3}
	if err := q.setup(); err != nil {
		q.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return q, nil
}

func (q *AMQPQueue) setup() error {
	if err := q.ch.ExchangeDeclare(
		q.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := q.ch.QueueDeclare(
		q.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := q.ch.QueueBind(q.queue, q.queue, q.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (q *AMQPQueue) Close() {
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

// Publish sends payload as JSON with routing key topic.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return q.publish(topic, body, 0)
}

func (q *AMQPQueue) publish(key string, body []byte, attempt int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	err := q.ch.Publish(
		q.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			Headers:      amqp.Table{retryHeader: int32(attempt)},
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Subscribe consumes the bound queue in the background until the channel
// closes. The handler receives the raw message body.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	return q.consume(context.Background(), topic, handler, false)
}

// Consume blocks, processing messages until ctx is cancelled.
func (q *AMQPQueue) Consume(ctx context.Context, handler func(payload any) error) error {
	return q.consume(ctx, q.queue, handler, true)
}

func (q *AMQPQueue) consume(ctx context.Context, key string, handler func(payload any) error, block bool) error {
	msgs, err := q.ch.Consume(
		q.queue, // queue
		"",      // consumer
		false,   // autoAck = false for reliability
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	p := &DeliveryProcessor{
		Handle:     handler,
		Retry:      func(body []byte, attempt int) error { return q.publish(key, body, attempt) },
		MaxRetries: q.MaxRetries,
		Log:        q.log,
	}
	loop := func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case d, ok := <-msgs:
				if !ok {
					return errors.New("message channel closed")
				}
				p.Process(d)
			}
		}
	}
	if block {
		return loop()
	}
	go func() {
		if err := loop(); err != nil {
			q.log.Warn("consumer stopped", zap.Error(err))
		}
	}()
	return nil
}

// DeliveryProcessor acks, retries or drops one delivery based on the
// handler's result. Malformed messages are acked and dropped; other failures
// are republished with an incremented retry header up to MaxRetries, then
// rejected without requeue.
type DeliveryProcessor struct {
	Handle     func(payload any) error
	Retry      func(body []byte, attempt int) error
	MaxRetries int
	Log        *zap.Logger
}

func (p *DeliveryProcessor) Process(d amqp.Delivery) {
	err := p.Handle(d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformed):
		p.Log.Warn("dropping malformed message", zap.Error(err))
		_ = d.Ack(false)
	default:
		attempt := retryCount(d.Headers) + 1
		if attempt > p.MaxRetries {
			p.Log.Error("message permanently failed", zap.Int("attempts", attempt), zap.Error(err))
			_ = d.Nack(false, false)
			return
		}
		if rerr := p.Retry(d.Body, attempt); rerr != nil {
			p.Log.Warn("republish failed, requeueing", zap.Error(rerr))
			_ = d.Nack(false, true)
			return
		}
		p.Log.Warn("message failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		_ = d.Ack(false)
	}
}

func retryCount(h amqp.Table) int {
	switch v := h[retryHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}
