package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcherInvokesAllHandlers(t *testing.T) {
	var first, second []Event
	dispatcher := NewInMemoryDispatcher(func(_ context.Context, e Event) error {
		first = append(first, e)
		return errors.New("handler failure must not stop fanout")
	})
	dispatcher.Subscribe(func(_ context.Context, e Event) error {
		second = append(second, e)
		return nil
	})

	event := Event{
		ID:          "evt-1",
		Kind:        KindAssigned,
		WorkOrderID: "wo-1",
		SequenceKey: "WO-ABCD1234",
		Message:     "Work order WO-ABCD1234 has been assigned",
		Timestamp:   time.Now(),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "evt-1", second[0].ID)
}

func TestInMemoryDispatcherNoHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Kind: KindClosed}))
}
