package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var submitted, assigned int
	dispatcher.Subscribe(EventComplaintSubmitted, func(context.Context, Event) error {
		submitted++
		return nil
	})
	dispatcher.Subscribe(EventComplaintAssigned, func(context.Context, Event) error {
		assigned++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintSubmitted}))
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintSubmitted}))

	assert.Equal(t, 2, submitted)
	assert.Equal(t, 0, assigned)
}

func TestDispatcherHandlerErrorDoesNotStopFanOut(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var reached bool
	dispatcher.Subscribe(EventResponseAdded, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventResponseAdded, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventResponseAdded})
	require.NoError(t, err)
	assert.True(t, reached)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventComplaintStatusChanged}))
}
