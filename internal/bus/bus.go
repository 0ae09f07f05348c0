package bus

import (
	"log/slog"
	"reflect"

	"github.com/cskr/pubsub"
)

// subscriberBuffer is the per-subscription channel capacity. Alert
// bursts from the pollers must not block the publisher.
const subscriberBuffer = 256

type Subscription chan any

// MessageBus decouples the backend pollers from the stores and
// services that react to their events.
type MessageBus interface {
	Publish(topic string, msg any)
	Subscribe(topic string) Subscription
	Unsubscribe(ch Subscription, topics ...string)
	Close()
}

// EventBus is the pubsub-backed MessageBus used by the application.
type EventBus struct {
	ps     *pubsub.PubSub
	logger *slog.Logger
}

func New(logger *slog.Logger) *EventBus {
	return &EventBus{
		ps:     pubsub.New(subscriberBuffer),
		logger: logger,
	}
}

func (b *EventBus) Publish(topic string, msg any) {
	b.logger.Debug("publish", "topic", topic, "payload_type", payloadType(msg))
	b.ps.Pub(msg, topic)
}

func (b *EventBus) Subscribe(topic string) Subscription {
	ch := b.ps.Sub(topic)
	b.logger.Debug("subscribe", "topic", topic)

	return ch
}

func (b *EventBus) Unsubscribe(ch Subscription, topics ...string) {
	if len(topics) == 0 {
		b.ps.Unsub(ch)
		b.logger.Debug("unsubscribe", "mode", "all")

		return
	}
	b.ps.Unsub(ch, topics...)
	b.logger.Debug("unsubscribe", "topics", topics)
}

func (b *EventBus) Close() {
	b.ps.Shutdown()
}

func payloadType(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
