package connectivity

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMonitor_PublishesOnlyTransitions(t *testing.T) {
	m := NewMonitor(false, discardLogger())
	sub := m.Subscribe()
	defer sub.Close()

	assert.False(t, m.SetOnline(false))
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	assert.True(t, m.SetOnline(true))
	ev := <-sub.Events()
	assert.True(t, ev.Online)
	assert.True(t, m.Online())

	assert.False(t, m.SetOnline(true))
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestMonitor_SlowSubscriberSeesLatest(t *testing.T) {
	m := NewMonitor(false, discardLogger())
	sub := m.Subscribe()
	defer sub.Close()

	m.SetOnline(true)
	m.SetOnline(false)
	m.SetOnline(true)

	ev := <-sub.Events()
	assert.True(t, ev.Online)
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestMonitor_FanOut(t *testing.T) {
	m := NewMonitor(true, discardLogger())
	a := m.Subscribe()
	b := m.Subscribe()
	defer a.Close()
	defer b.Close()

	m.SetOnline(false)

	assert.False(t, (<-a.Events()).Online)
	assert.False(t, (<-b.Events()).Online)
}

func TestSubscription_CloseReleasesSlot(t *testing.T) {
	m := NewMonitor(false, discardLogger())

	for i := 0; i < 10; i++ {
		sub := m.Subscribe()
		sub.Close()
	}
	assert.Zero(t, m.Subscribers())

	sub := m.Subscribe()
	require.Equal(t, 1, m.Subscribers())

	sub.Close()
	sub.Close()
	assert.Zero(t, m.Subscribers())

	_, open := <-sub.Events()
	assert.False(t, open)

	// после отписки переходы не паникуют на закрытом канале
	assert.True(t, m.SetOnline(true))
}

func TestWatch_DrivesMonitor(t *testing.T) {
	m := NewMonitor(false, discardLogger())
	sub := m.Subscribe()
	defer sub.Close()

	var healthy atomic.Bool
	healthy.Store(true)
	probe := ProbeFunc(func(ctx context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("connection refused")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Watch(ctx, probe, 10*time.Millisecond)
		close(done)
	}()

	select {
	case ev := <-sub.Events():
		assert.True(t, ev.Online)
	case <-time.After(time.Second):
		t.Fatal("no online event")
	}

	healthy.Store(false)
	select {
	case ev := <-sub.Events():
		assert.False(t, ev.Online)
	case <-time.After(time.Second):
		t.Fatal("no offline event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop")
	}
}
