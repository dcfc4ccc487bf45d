package relay

import (
	"bytes"
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/eventbroker/internal/broker"
	"github.com/nfrund/eventbroker/internal/config"
)

type counter struct {
	name  string
	calls atomic.Int64
}

func (c *counter) handle() error {
	c.calls.Add(1)
	return nil
}

func newTestRelay(t *testing.T) *Relay {
	t.Helper()
	r := New(config.RelayConfig{Enabled: true, JournalTopic: "broker.fired", Buffer: 16}, nil)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func receive(t *testing.T, ch <-chan string, n int) []string {
	t.Helper()
	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case topic, ok := <-ch:
			require.True(t, ok, "journal closed early")
			got = append(got, topic)
		case <-timeout:
			t.Fatalf("timed out after %d of %d topics", len(got), n)
		}
	}
	return got
}

func TestJournal(t *testing.T) {
	r := newTestRelay(t)
	b := broker.New(broker.WithFireHook(r.Hook()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	journal, err := r.Journal(ctx)
	require.NoError(t, err)

	require.NoError(t, b.Fire("orders.created"))
	require.NoError(t, b.Fire("nobody.listens"))

	got := receive(t, journal, 2)
	assert.ElementsMatch(t, []string{"orders.created", "nobody.listens"}, got)
	assert.Equal(t, "broker.fired", r.JournalTopic())
}

func TestHookAfterClose(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(config.RelayConfig{Enabled: true, JournalTopic: "broker.fired", Buffer: 16}, logger)
	b := broker.New(broker.WithFireHook(r.Hook()))

	require.NoError(t, r.Close())
	require.NoError(t, b.Fire("orders.created"))

	assert.NotContains(t, buf.String(), "Failed to journal")
}

func TestForward(t *testing.T) {
	t.Run("messages fire bound topics", func(t *testing.T) {
		r := newTestRelay(t)
		b := broker.New()
		first := &counter{name: "first"}
		second := &counter{name: "second"}
		require.NoError(t, broker.AddSubscriber(b, "t1", first, (*counter).handle))
		require.NoError(t, broker.AddSubscriber(b, "t2", second, (*counter).handle))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, r.Forward(ctx, b, "external.orders", "t1", "t2"))
		require.NoError(t, r.Send("external.orders"))
		require.NoError(t, r.Send("external.orders"))

		assert.Eventually(t, func() bool {
			return first.calls.Load() == 2 && second.calls.Load() == 2
		}, 2*time.Second, 10*time.Millisecond)
		runtime.KeepAlive(first)
		runtime.KeepAlive(second)
	})

	t.Run("journal topic is rejected", func(t *testing.T) {
		r := newTestRelay(t)
		err := r.Forward(context.Background(), broker.New(), r.JournalTopic(), "t1")

		assert.ErrorIs(t, err, broker.ErrInvalidArgument)
	})

	t.Run("topics are required", func(t *testing.T) {
		r := newTestRelay(t)
		err := r.Forward(context.Background(), broker.New(), "external.orders")

		assert.ErrorIs(t, err, broker.ErrInvalidArgument)
	})
}
