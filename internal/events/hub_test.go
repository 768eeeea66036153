package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func TestPublishReachesOnlyOwnHousehold(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("house-a")
	b := hub.Subscribe("house-b")
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	hub.Publish("house-a", models.ChangeEvent{ResourceClass: models.ResourcePantry, EventType: "UPDATE"})

	select {
	case ev := <-a.C:
		assert.Equal(t, models.ResourcePantry, ev.ResourceClass)
	default:
		t.Fatal("subscriber in the publishing household got nothing")
	}
	select {
	case <-b.C:
		t.Fatal("event leaked across households")
	default:
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("house-a")
	second := hub.Subscribe("house-a")
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)

	require.Equal(t, 2, hub.SubscriberCount("house-a"))
	hub.Publish("house-a", models.ChangeEvent{ResourceClass: models.ResourceMeals, EventType: "INSERT"})

	assert.Len(t, first.C, 1)
	assert.Len(t, second.C, 1)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("house-a")

	hub.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount("house-a"))

	// Double unsubscribe must not panic on the closed channel.
	hub.Unsubscribe(sub)
	// Publishing to a household with no listeners is a no-op.
	hub.Publish("house-a", models.ChangeEvent{ResourceClass: models.ResourceShopping, EventType: "DELETE"})
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("house-a")
	defer hub.Unsubscribe(sub)

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("house-a", models.ChangeEvent{ResourceClass: models.ResourcePantry, EventType: "UPDATE"})
	}

	assert.Len(t, sub.C, subscriberBuffer, "overflow is dropped, publish never blocks")
}
