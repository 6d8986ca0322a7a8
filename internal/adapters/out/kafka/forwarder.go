// Package kafka forwards order change events from the notification hub to a
// Kafka topic so consumers outside the process can follow the board.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"kds/internal/adapters/out/notifications"
	"kds/internal/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const eventHeader = "event"

// MessageWriter is the subset of *kafka.Writer the forwarder needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a writer for a comma separated broker list.
func NewWriter(brokersCSV, topic string) *kafka.Writer {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

type Forwarder struct {
	writer MessageWriter
	logger *slog.Logger
	now    func() time.Time
}

func NewForwarder(writer MessageWriter, logger *slog.Logger) *Forwarder {
	return &Forwarder{
		writer: writer,
		logger: logger.With("component", "KafkaForwarder"),
		now:    time.Now,
	}
}

// Run writes every event until events is closed or ctx is done. Write failures
// are logged and counted; the event is not retried.
func (f *Forwarder) Run(ctx context.Context, events <-chan notifications.Event) {
	f.logger.Info("forwarding order events")
	defer f.logger.Info("stopped forwarding order events")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			f.forward(ctx, event)
		}
	}
}

func (f *Forwarder) forward(ctx context.Context, event notifications.Event) {
	msg := kafka.Message{
		Key:     []byte(orderKey(event)),
		Value:   event.Payload,
		Headers: []kafka.Header{{Key: eventHeader, Value: []byte(event.Name)}},
		Time:    f.now().UTC(),
	}

	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		metrics.EventsForwarded.WithLabelValues("error").Inc()
		f.logger.Error("failed to forward order event", "event", event.Name, "error", err)
		return
	}
	metrics.EventsForwarded.WithLabelValues("ok").Inc()
}

func (f *Forwarder) Close() error {
	return f.writer.Close()
}

// orderKey partitions by order id so one order's events stay ordered.
// Events without an order use the event name.
func orderKey(event notifications.Event) string {
	var ref struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Payload, &ref); err == nil && ref.ID != "" {
		return ref.ID
	}
	return event.Name
}
