package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	n := Multi(&a, nil, &b)
	n.Notify(Success("done"))
	n.Notify(Error("failed", errors.New("boom")))

	require.Len(t, a.All(), 2)
	require.Len(t, b.All(), 2)
	last, ok := b.Last()
	require.True(t, ok)
	require.Equal(t, LevelError, last.Level)
	require.Equal(t, "boom", last.Err)
}

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	bus.Notify(Info("Theme suggestion: minimal"))

	select {
	case got := <-ch:
		require.Equal(t, LevelInfo, got.Level)
		require.Equal(t, "Theme suggestion: minimal", got.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}
