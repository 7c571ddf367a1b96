package hub_test

import (
	"context"
	"testing"

	"github.com/momeni/drone-rental/pkg/adapter/notify/hub"
	"github.com/momeni/drone-rental/pkg/core/model"
	"github.com/momeni/drone-rental/pkg/core/usecase/dronesuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ dronesuc.Publisher = (*hub.Hub)(nil)

func TestFanOut(t *testing.T) {
	ctx := context.Background()
	h := hub.New()
	s1 := h.Subscribe(ctx, 4)
	s2 := h.Subscribe(ctx, 4)
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, 2, h.Len())

	events := []model.Event{
		model.DroneAdded{ID: 1, Model: "Falcon-9X"},
		model.DroneRented{ID: 1, Holder: "0xalice"},
		model.DroneReturned{ID: 1},
	}
	for _, e := range events {
		h.Publish(ctx, e)
	}
	for _, s := range []*hub.Subscription{s1, s2} {
		for _, want := range events {
			got, ok := <-s.C()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}
	}

	s1.Close()
	s1.Close()
	_, ok := <-s1.C()
	assert.False(t, ok, "closed subscription channel is open")
	assert.Equal(t, 1, h.Len())
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	ctx := context.Background()
	h := hub.New()
	slow := h.Subscribe(ctx, 1)
	fast := h.Subscribe(ctx, 8)

	h.Publish(ctx, model.DroneAdded{ID: 1, Model: "Falcon-9X"})
	h.Publish(ctx, model.DroneAdded{ID: 2, Model: "Hornet-2"})
	assert.Equal(t, 1, h.Len())

	got, ok := <-slow.C()
	require.True(t, ok, "buffered event is lost")
	assert.Equal(t, model.DroneID(1), got.Drone())
	_, ok = <-slow.C()
	assert.False(t, ok, "dropped subscriber channel is open")
	slow.Close() // no double close panic

	assert.Len(t, fast.C(), 2)
	fast.Close()
	assert.Zero(t, h.Len())
}
