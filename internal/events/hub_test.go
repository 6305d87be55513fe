package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubSubscribePredicate(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	var got []Event
	unsubscribe := hub.Subscribe("cart", func(e Event) bool {
		return e.UserID == userID
	}, func(e Event) {
		got = append(got, e)
	})
	defer unsubscribe()

	hub.Publish(Event{Table: "cart", Type: "cart_item_added", UserID: userID})
	hub.Publish(Event{Table: "cart", Type: "cart_item_added", UserID: uuid.New()})
	hub.Publish(Event{Table: "orders", Type: "order_created", UserID: userID})

	require.Len(t, got, 1)
	require.Equal(t, "cart_item_added", got[0].Type)
}

func TestHubNilPredicateMatchesTable(t *testing.T) {
	hub := NewHub()

	n := 0
	hub.Subscribe("cart", nil, func(Event) { n++ })

	hub.Publish(Event{Table: "cart", Type: "a"})
	hub.Publish(Event{Table: "cart", Type: "b"})
	require.Equal(t, 2, n)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	n := 0
	unsubscribe := hub.Subscribe("cart", nil, func(Event) { n++ })

	hub.Publish(Event{Table: "cart"})
	unsubscribe()
	unsubscribe() // safe to call twice
	hub.Publish(Event{Table: "cart"})

	require.Equal(t, 1, n)
}

func TestHubCallbackMaySubscribe(t *testing.T) {
	hub := NewHub()

	fired := false
	hub.Subscribe("cart", nil, func(Event) {
		hub.Subscribe("orders", nil, func(Event) { fired = true })
	})

	hub.Publish(Event{Table: "cart"})
	hub.Publish(Event{Table: "orders"})
	require.True(t, fired)
}
