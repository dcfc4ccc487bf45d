package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/eventbroker/cmd/brokerctl/internal/topics"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("BROKER_RELAY_ENABLED", "false")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		demoFires, demoDrop, listOutputFormat = 2, false, "table"
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "brokerctl v"+version)
}

func TestDemoCommand(t *testing.T) {
	t.Run("fires", func(t *testing.T) {
		out := execute(t, "demo", "--fires", "3")

		assert.Contains(t, out, `counter "primary": 3 hits`)
		assert.Contains(t, out, "auditor: 3 entries")
		assert.Contains(t, out, "demo.tick now holds 1 subscriptions")
	})

	t.Run("drop", func(t *testing.T) {
		out := execute(t, "demo", "--fires", "2", "--drop")

		assert.Contains(t, out, `counter "primary": 3 hits`)
		assert.Contains(t, out, "demo.tick now holds 1 subscriptions")
	})
}

func TestTopicsListCommand(t *testing.T) {
	out := execute(t, "topics", "list", "--format", "json")

	var rows []topics.TopicDisplay
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []topics.TopicDisplay{
		{Name: "demo.tick", Subscribers: 1},
		{Name: "demo.audit", Subscribers: 1},
	}, rows)
}

func TestTopicsTypesCommand(t *testing.T) {
	out := execute(t, "topics", "types")

	assert.Contains(t, out, "*demo.Ticker")
	assert.Contains(t, out, "demo.tick+demo.audit")
}
