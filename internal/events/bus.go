package events

import (
	"context"

	"github.com/Abdul1ayev/greenshop-api/internal/logging"
)

// Bus fans events out to the in-process hub and, when configured, to Kafka.
// A nil Producer is fine: local runs and tests only get the hub.
type Bus struct {
	Hub      *Hub
	Producer *Producer
}

func NewBus(hub *Hub, producer *Producer) *Bus {
	return &Bus{Hub: hub, Producer: producer}
}

// Publish never fails the calling operation: a broken broker must not turn a
// successful cart mutation into an error, so kafka failures are only logged.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil {
		return
	}
	if b.Hub != nil {
		b.Hub.Publish(e)
	}
	if b.Producer != nil {
		if err := b.Producer.PublishEvent(ctx, e.Table+"_events", e.UserID.String(), e); err != nil {
			logging.FromContext(ctx).Error("event_publish_failed", "table", e.Table, "type", e.Type, "error", err)
		}
	}
}
