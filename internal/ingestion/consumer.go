package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/soyeahso/agentbridge/internal/config"
	"github.com/soyeahso/agentbridge/internal/domain"
	"github.com/soyeahso/agentbridge/internal/logging"
)

// handleTimeout bounds one job-start call per delivery.
const handleTimeout = 10 * time.Second

// Consumer binds a queue to the storage-event exchange and fires the
// trigger once per delivery. Failures are nacked with requeue so the
// broker's own redelivery policy governs retries.
type Consumer struct {
	conn    *amqp091.Connection
	ch      *amqp091.Channel
	cfg     config.EventsConfig
	trigger *Trigger
	log     *logging.Logger
}

// NewConsumer dials the broker and declares the exchange, queue, and
// binding. The exchange is a durable topic exchange shared with whatever
// publishes storage mutations.
func NewConsumer(cfg config.EventsConfig, trigger *Trigger, log *logging.Logger) (*Consumer, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dialing broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", cfg.Exchange, err)
	}
	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declaring queue %s: %w", cfg.Queue, err)
	}
	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("binding queue: %w", err)
	}

	return &Consumer{
		conn:    conn,
		ch:      ch,
		cfg:     cfg,
		trigger: trigger,
		log:     log.Sub("events"),
	}, nil
}

// Start consumes deliveries until the context is cancelled. It blocks.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.ch.Qos(c.cfg.Workers*2, 0, false); err != nil {
		return fmt.Errorf("setting QoS: %w", err)
	}
	msgs, err := c.ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("starting consume: %w", err)
	}

	c.log.Info().
		Str("queue", c.cfg.Queue).
		Str("routingKey", c.cfg.RoutingKey).
		Int("workers", c.cfg.Workers).
		Msg("storage event consumer started")

	done := make(chan struct{})
	for i := 0; i < c.cfg.Workers; i++ {
		go c.workerLoop(ctx, msgs, done)
	}

	<-ctx.Done()
	close(done)
	return nil
}

func (c *Consumer) workerLoop(ctx context.Context, msgs <-chan amqp091.Delivery, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
			err := c.handle(handleCtx, msg.Body)
			cancel()
			if err != nil {
				c.log.Error().Err(err).Str("routingKey", msg.RoutingKey).Msg("handler error")
				_ = msg.Nack(false, true)
			} else {
				_ = msg.Ack(false)
			}
		}
	}
}

// handle fires the trigger for one storage event. The event body is only
// decoded for logging; its content never influences the job request.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var ev domain.StorageEvent
	if err := json.Unmarshal(body, &ev); err == nil && ev.Key != "" {
		c.log.Debug().Str("bucket", ev.Bucket).Str("key", ev.Key).Str("kind", ev.Kind).Msg("storage event")
	}

	_, err := c.trigger.Fire(ctx)
	return err
}

// Close shuts down the channel and connection.
func (c *Consumer) Close() error {
	_ = c.ch.Close()
	return c.conn.Close()
}
