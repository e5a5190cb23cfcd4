package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var got []EventType
	d.Subscribe(EventBookingCreated, func(ctx context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventBookingCreated, func(ctx context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventBookingCancelled, func(ctx context.Context, e Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventBookingCreated})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDispatcherContinuesPastHandlerError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	called := false
	d.Subscribe(EventRoleChanged, func(ctx context.Context, e Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventRoleChanged, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventRoleChanged})
	assert.NoError(t, err)
	assert.True(t, called)

	entries := logs.FilterMessage("event handler failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, string(EventRoleChanged), entries[0].ContextMap()["event_type"])
	}
}
