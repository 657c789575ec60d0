package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toximcp/toximcp/pkg/types"
)

func TestAddLatencyToxicDefaults(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{Name: "pg", Enabled: true})
	s := newTestService(t, fc)

	res, text := call(t, s, "add_latency_toxic", map[string]any{"proxyName": "pg", "latency": 1000})
	assert.False(t, res.IsError)

	require.Len(t, fc.createdToxics, 1)
	toxic := fc.createdToxics[0]
	assert.Equal(t, "latency_toxic", toxic.Name)
	assert.Equal(t, "latency", toxic.Type)
	assert.Equal(t, "downstream", toxic.Stream)
	assert.Equal(t, 1.0, toxic.Toxicity)
	assert.Equal(t, types.Attributes{"latency": int64(1000), "jitter": int64(0)}, toxic.Attributes)

	assert.Contains(t, text, "✅ Latency toxic added successfully!")
	assert.Contains(t, text, "- Name: latency_toxic\n- Proxy: pg\n- Type: latency\n- Direction: downstream\n")
	assert.Contains(t, text, "- Latency: 1000ms\n- Jitter: 0ms\n")
	assert.Contains(t, text, "- Toxicity: 100%")
	assert.Contains(t, text, "The toxic is now active and will affect downstream traffic.")
}

func TestAddLatencyToxicOptions(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{Name: "pg", Enabled: true})
	s := newTestService(t, fc)

	_, text := call(t, s, "add_latency_toxic", map[string]any{
		"proxyName": "pg",
		"toxicName": "slow_queries",
		"latency":   250,
		"jitter":    50,
		"toxicity":  0.5,
		"direction": "upstream",
	})

	require.Len(t, fc.createdToxics, 1)
	toxic := fc.createdToxics[0]
	assert.Equal(t, "slow_queries", toxic.Name)
	assert.Equal(t, "upstream", toxic.Stream)
	assert.Equal(t, 0.5, toxic.Toxicity)
	assert.Equal(t, int64(50), toxic.Attributes["jitter"])

	assert.Contains(t, text, "- Toxicity: 50%")
	assert.Contains(t, text, "will affect upstream traffic.")
}

func TestAddToxicExplicitZeroToxicity(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{Name: "pg", Enabled: true})
	s := newTestService(t, fc)

	_, text := call(t, s, "add_bandwidth_toxic", map[string]any{"proxyName": "pg", "rate": 10, "toxicity": 0})

	require.Len(t, fc.createdToxics, 1)
	assert.Equal(t, 0.0, fc.createdToxics[0].Toxicity)
	assert.Contains(t, text, "- Toxicity: 0%")
}

func TestAddBandwidthToxic(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{Name: "mq", Enabled: true})
	s := newTestService(t, fc)

	_, text := call(t, s, "add_bandwidth_toxic", map[string]any{"proxyName": "mq", "rate": 64})

	require.Len(t, fc.createdToxics, 1)
	assert.Equal(t, "bandwidth_toxic", fc.createdToxics[0].Name)
	assert.Equal(t, types.Attributes{"rate": int64(64)}, fc.createdToxics[0].Attributes)
	assert.Contains(t, text, "✅ Bandwidth toxic added successfully!")
	assert.Contains(t, text, "- Rate limit: 64 KB/s")
	assert.Contains(t, text, "The toxic is now active and will limit downstream bandwidth.")
}

func TestAddTimeoutToxic(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{Name: "pg", Enabled: true})
	s := newTestService(t, fc)

	_, text := call(t, s, "add_timeout_toxic", map[string]any{"proxyName": "pg", "timeout": 0})
	assert.Contains(t, text, "✅ Timeout toxic added successfully!")
	assert.Contains(t, text, "- Timeout: 0ms (data will be dropped until removed)")

	_, text = call(t, s, "add_timeout_toxic", map[string]any{"proxyName": "pg", "toxicName": "t2", "timeout": 3000})
	assert.Contains(t, text, "- Timeout: 3000ms\n")
	assert.NotContains(t, text, "dropped")
}

func TestAddToxicMissingProxy(t *testing.T) {
	s := newTestService(t, newFakeClient())

	res, text := call(t, s, "add_latency_toxic", map[string]any{"proxyName": "ghost", "latency": 100})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "❌ Failed to add latency toxic!")
	assert.Contains(t, text, "Toxiproxy API error (404): proxy not found")
	assert.Contains(t, text, "Make sure the proxy 'ghost' exists.")
}

func TestAddToxicUnreachable(t *testing.T) {
	s := newTestService(t, newFakeClient().unreachable())

	res, text := call(t, s, "add_timeout_toxic", map[string]any{"proxyName": "pg", "timeout": 10})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "Cannot connect to Toxiproxy server")
	assert.Contains(t, text, startToxiproxyCommand)
	assert.NotContains(t, text, "Make sure the proxy")
}

func TestRemoveToxic(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{
		Name:   "pg",
		Toxics: []types.Toxic{{Name: "latency_toxic", Type: "latency"}},
	})
	s := newTestService(t, fc)

	res, text := call(t, s, "remove_toxic", map[string]any{"proxyName": "pg", "toxicName": "latency_toxic"})
	assert.False(t, res.IsError)
	assert.Equal(t, "✅ Toxic 'latency_toxic' removed successfully from proxy 'pg'!", text)
	assert.Empty(t, fc.proxies["pg"].Toxics)

	res, text = call(t, s, "remove_toxic", map[string]any{"proxyName": "pg", "toxicName": "latency_toxic"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "Make sure both the proxy 'pg' and toxic 'latency_toxic' exist.")
}

func TestResetProxies(t *testing.T) {
	fc := newFakeClient().withProxy(&types.Proxy{
		Name:    "pg",
		Enabled: false,
		Toxics:  []types.Toxic{{Name: "latency_toxic", Type: "latency"}},
	})
	s := newTestService(t, fc)

	res, text := call(t, s, "reset_proxies", nil)
	assert.False(t, res.IsError)
	assert.Contains(t, text, "✅ All proxies have been reset!")
	assert.Contains(t, text, "- All toxics removed")
	assert.True(t, fc.proxies["pg"].Enabled)
	assert.Empty(t, fc.proxies["pg"].Toxics)

	s = newTestService(t, newFakeClient().unreachable())
	res, text = call(t, s, "reset_proxies", nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, "❌ Failed to reset proxies!")
}

func TestPercent(t *testing.T) {
	tests := map[float64]string{
		1:     "100",
		0.5:   "50",
		0:     "0",
		0.333: "33.3",
		0.07:  "7",
		0.125: "12.5",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, percent(in), "percent(%v)", in)
	}
}
