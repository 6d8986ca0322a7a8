// Package notifications fans order change events out to in-process
// subscribers (SSE streams, the Kafka forwarder) over Watermill's gochannel pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"kds/internal/core/application/usecases/queries"
	"kds/internal/core/domain/model/order"
	"kds/internal/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	EventOrderCreated      = "order_created"
	EventOrderUpdated      = "order_updated"
	EventOrderLimitReached = "order_limit_reached"

	topic       = "orders"
	metadataKey = "event"

	DefaultSubscriberBuffer = 64
)

var ErrHubClosed = errors.New("notification hub is closed")

// Event is one change notification. Payload is the JSON order view, or an
// empty object for order_limit_reached.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// Hub implements ports.OrderNotifier.
//
// Publishing never fails the caller: errors are logged. Each subscriber gets
// events in publish order through its own buffered channel; when that buffer
// is full the event is dropped for that subscriber only.
type Hub struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
	buffer int

	mu     sync.RWMutex
	closed bool
}

func NewHub(logger *slog.Logger, subscriberBuffer int) *Hub {
	if subscriberBuffer <= 0 {
		subscriberBuffer = DefaultSubscriberBuffer
	}
	logger = logger.With("component", "NotificationHub")

	return &Hub{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			Persistent: false,
			// Subscribers ack right after a non-blocking hand-off; waiting for
			// the ack keeps per-subscriber order.
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
		buffer: subscriberBuffer,
	}
}

func (h *Hub) PublishCreated(_ context.Context, o *order.Order) {
	h.publishOrder(EventOrderCreated, o)
}

func (h *Hub) PublishUpdated(_ context.Context, o *order.Order) {
	h.publishOrder(EventOrderUpdated, o)
}

func (h *Hub) PublishCapacityReached(_ context.Context) {
	h.publish(EventOrderLimitReached, json.RawMessage(`{}`))
}

func (h *Hub) publishOrder(name string, o *order.Order) {
	if o == nil {
		return
	}
	payload, err := json.Marshal(queries.NewOrderView(o))
	if err != nil {
		h.logger.Error("failed to encode order event", "event", name, "orderId", o.ID().String(), "error", err)
		return
	}
	h.publish(name, payload)
}

// publish runs outside the hub lock: gochannel blocks until every subscriber
// acks, and Close must not wait on that.
func (h *Hub) publish(name string, payload []byte) {
	if h.isClosed() {
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataKey, name)
	if err := h.pubSub.Publish(topic, msg); err != nil {
		if h.isClosed() {
			return
		}
		h.logger.Error("failed to publish order event", "event", name, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(name).Inc()
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Subscribe registers a subscriber that lives until ctx is done or the hub is
// closed; the returned channel is closed then. Events published before
// Subscribe returns are not replayed.
func (h *Hub) Subscribe(ctx context.Context) (<-chan Event, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	messages, err := h.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, h.buffer)
	go func() {
		defer close(out)
		for msg := range messages {
			event := Event{Name: msg.Metadata.Get(metadataKey), Payload: json.RawMessage(msg.Payload)}
			msg.Ack()

			select {
			case out <- event:
			default:
				metrics.EventsDropped.Inc()
				h.logger.Warn("subscriber buffer full, dropping event", "event", event.Name)
			}
		}
	}()

	return out, nil
}

// Close closes every subscription. Publishing after Close is a no-op.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.pubSub.Close()
}
