package core

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"levguard/config"
	"levguard/pkg/exchange/dummy"
	"levguard/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUniverse(t *testing.T, dummyCfg *config.DummyConfig) *Universe {
	t.Helper()
	cfg := config.Default(types.EnvLocal)
	cfg.Exchange.ExchangeName = types.ExchangeDummy
	cfg.Exchange.Dummy = dummyCfg
	pollEnabled := false
	cfg.Monitor.PollEnabled = &pollEnabled

	exchg, err := dummy.New(cfg.Exchange)
	require.NoError(t, err)
	universe, err := Assemble(*cfg, exchg)
	require.NoError(t, err)
	return universe
}

func getJSON(t *testing.T, universe *Universe, path string) (int, map[string]any) {
	t.Helper()
	app := SetupFiberApp(universe)
	res, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return res.StatusCode, body
}

func TestApiStatus(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{MarginBalance: 1000, PositionQty: 0.05, EntryPrice: 38000, Price: 40000})

	code, body := getJSON(t, universe, "/api/status")
	assert.Equal(t, 200, code)
	assert.Equal(t, 40000.0, body["price"])
	assert.Equal(t, 0.05, body["amt"])
	assert.Equal(t, 38000.0, body["entry_price"])
	assert.Equal(t, 2000.0, body["position_value"])
	assert.Equal(t, 1000.0, body["margin_balance"])
	assert.Equal(t, 2.0, body["current_leverage"])
	assert.Equal(t, 1.5, body["target_leverage"])
	assert.Equal(t, true, body["action_needed"])

	instruction, ok := body["instruction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 333.33, instruction["transfer_usdt"])
	assert.Equal(t, 0.00842, instruction["sell_spot_btc"])
	assert.NotContains(t, body, "error")
}

func TestApiStatus_MissingPosition(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{MarginBalance: 1000, Price: 40000, NoPosition: true})

	code, body := getJSON(t, universe, "/api/status")
	assert.Equal(t, 200, code)
	assert.Equal(t, map[string]any{"error": "position not found: BTCUSDT"}, body)
}

func TestHealth(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{MarginBalance: 1000, PositionQty: 0.05, Price: 40000})

	code, body := getJSON(t, universe, "/health")
	assert.Equal(t, 200, code)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data, "uptime_s")
	assert.Nil(t, data["last_poll"])

	getJSON(t, universe, "/api/status")
	_, body = getJSON(t, universe, "/health")
	assert.NotNil(t, body["data"].(map[string]any)["last_poll"])
}

func TestDashboard(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{MarginBalance: 1000, PositionQty: 0.05, Price: 40000})
	app := SetupFiberApp(universe)

	res, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BTC/USDT leverage monitor")
	assert.Contains(t, string(raw), "Target leverage: 1.5x")
}

func TestAssemble_PollerToggle(t *testing.T) {
	universe := newTestUniverse(t, &config.DummyConfig{})
	assert.Nil(t, universe.Poller)

	cfg := config.Default(types.EnvLocal)
	exchg, err := dummy.New(&config.ExchangeConfig{ExchangeName: types.ExchangeDummy})
	require.NoError(t, err)
	universe, err = Assemble(*cfg, exchg)
	require.NoError(t, err)
	assert.NotNil(t, universe.Poller)
}

func TestAssemble_ZeroThresholdAndFeeBuffer(t *testing.T) {
	// required margin 1333.33 against 1330: a 3.33 shortfall stays below the default threshold
	dummyCfg := &config.DummyConfig{MarginBalance: 1330, PositionQty: 0.05, EntryPrice: 38000, Price: 40000}

	_, body := getJSON(t, newTestUniverse(t, dummyCfg), "/api/status")
	assert.Equal(t, false, body["action_needed"])

	cfg := config.Default(types.EnvLocal)
	pollEnabled := false
	cfg.Monitor.PollEnabled = &pollEnabled
	zero := 0.0
	cfg.Monitor.ActionThreshold = &zero
	cfg.Monitor.FeeBuffer = &zero
	exchg, err := dummy.New(&config.ExchangeConfig{ExchangeName: types.ExchangeDummy, Dummy: dummyCfg})
	require.NoError(t, err)
	universe, err := Assemble(*cfg, exchg)
	require.NoError(t, err)

	_, body = getJSON(t, universe, "/api/status")
	assert.Equal(t, true, body["action_needed"])
	instruction, ok := body["instruction"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 3.33, instruction["transfer_usdt"], 1e-9)
	// 3.3333.. / 40000 with no buffer
	assert.InDelta(t, 0.00008, instruction["sell_spot_btc"], 1e-9)
}
