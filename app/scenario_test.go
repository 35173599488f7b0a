package app_test

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawpool/app"
)

func roles() map[string]interface{} {
	return map[string]interface{}{
		"admin":             "ops",
		"pauser":            []interface{}{"ops"},
		"fee_proposer":      "ops",
		"timelock_executor": "timelock",
		"treasury":          "treasury",
		"guardian":          "ops",
	}
}

func TestRunScenario_Lifecycle(t *testing.T) {
	sc, err := app.ScenarioFromMap(map[string]interface{}{
		"name":  "lifecycle",
		"roles": roles(),
		"steps": []interface{}{
			map[string]interface{}{"action": "fund", "account": "alice", "amount_a": 1_000_000, "amount_b": "1_000_000"},
			map[string]interface{}{"action": "add", "actor": "alice", "amount_a": 1_000_000, "amount_b": 1_000_000},
			map[string]interface{}{"action": "fund", "account": "bob", "amount_a": 20_000},
			map[string]interface{}{"action": "swap", "actor": "bob", "direction": "a_to_b", "amount_in": 10_000, "min_out": 9_871},
			map[string]interface{}{"action": "pause", "actor": "ops"},
			map[string]interface{}{"action": "swap", "actor": "bob", "direction": "a_to_b", "amount_in": 10_000, "expect_error": "paused"},
			map[string]interface{}{"action": "unpause", "actor": "ops"},
			map[string]interface{}{"action": "propose_fee", "actor": "ops", "fee_bps": 50},
			map[string]interface{}{"action": "execute_fee", "actor": "timelock", "proposal": 1, "expect_error": "not mature"},
			map[string]interface{}{"action": "execute_fee", "actor": "ops", "proposal": 1, "expect_error": "unauthorized"},
			map[string]interface{}{"action": "advance", "interval": "48h"},
			map[string]interface{}{"action": "execute_fee", "actor": "timelock", "proposal": 1},
			map[string]interface{}{"action": "remove", "actor": "alice", "shares": 500_000},
			map[string]interface{}{"action": "collect_protocol", "actor": "treasury"},
		},
	})
	require.NoError(t, err)

	report, err := app.RunScenario(log.NewNopLogger(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, 14)

	require.Equal(t, "999000", report.Steps[1].Outputs["shares"])
	require.Equal(t, "9871", report.Steps[3].Outputs["amount_out"])
	require.Contains(t, report.Steps[5].Error, "paused")
	require.Equal(t, "1", report.Steps[7].Outputs["proposal"])
	require.Equal(t, "3", report.Steps[13].Outputs["fee_a"])

	require.Equal(t, uint32(50), report.Pool.Pool.SwapFeeBps)
	require.True(t, report.Pool.Reconciled)
	require.False(t, report.Pool.Paused)
	require.Equal(t, "499000", report.Accounts["alice"].Shares.String())
	require.Equal(t, "10000", report.Accounts["bob"].AssetA.String())
	require.Equal(t, "9871", report.Accounts["bob"].AssetB.String())
	require.Equal(t, "3", report.Accounts["treasury"].AssetA.String())
	require.NotEmpty(t, report.Commit)
	require.NoError(t, report.Genesis.Validate())
}

func TestRunScenario_EmergencyUnwind(t *testing.T) {
	sc, err := app.ScenarioFromMap(map[string]interface{}{
		"roles": roles(),
		"steps": []interface{}{
			map[string]interface{}{"action": "fund", "account": "alice", "amount_a": 40_000, "amount_b": 40_000},
			map[string]interface{}{"action": "add", "actor": "alice", "amount_a": 40_000, "amount_b": 40_000},
			map[string]interface{}{"action": "redeem", "actor": "alice", "expect_error": "not halted"},
			map[string]interface{}{"action": "emergency", "actor": "ops"},
			map[string]interface{}{"action": "add", "actor": "alice", "amount_a": 1, "amount_b": 1, "expect_error": "halted"},
			map[string]interface{}{"action": "redeem", "actor": "alice"},
		},
	})
	require.NoError(t, err)

	report, err := app.RunScenario(log.NewNopLogger(), sc)
	require.NoError(t, err)
	require.Equal(t, "40000", report.Steps[3].Outputs["supply"])
	require.Equal(t, "39000", report.Steps[5].Outputs["amount_a"])
	require.True(t, report.Pool.Pool.Halted)
	require.NotNil(t, report.Pool.Snapshot)
	require.True(t, report.Accounts["alice"].Shares.IsZero())
}

func TestRunScenario_UnexpectedOutcomeStops(t *testing.T) {
	sc, err := app.ScenarioFromMap(map[string]interface{}{
		"roles": roles(),
		"steps": []interface{}{
			map[string]interface{}{"action": "pause", "actor": "mallory"},
			map[string]interface{}{"action": "pause", "actor": "ops"},
		},
	})
	require.NoError(t, err)

	report, err := app.RunScenario(log.NewNopLogger(), sc)
	require.ErrorContains(t, err, "unauthorized")
	require.Len(t, report.Steps, 1)

	sc.Steps = []app.Step{{"action": "pause", "actor": "ops", "expect_error": "unauthorized"}}
	_, err = app.RunScenario(log.NewNopLogger(), sc)
	require.ErrorContains(t, err, "expected error")

	sc.Steps = []app.Step{{"action": "teleport"}}
	_, err = app.RunScenario(log.NewNopLogger(), sc)
	require.ErrorContains(t, err, "unknown action")
}

func TestScenarioFromMap_Params(t *testing.T) {
	sc, err := app.ScenarioFromMap(map[string]interface{}{
		"swap_fee_bps": 25,
		"genesis_time": "2026-03-01T00:00:00Z",
		"params": map[string]interface{}{
			"protocol_fee_share_bps": 0,
			"fee_change_delay":       "1h",
			"min_fee_collection":     "5",
		},
	})
	require.NoError(t, err)
	require.Equal(t, uint32(25), sc.SwapFeeBps)
	require.Equal(t, uint32(0), sc.Params.ProtocolFeeShareBps)
	require.Equal(t, "1h0m0s", sc.Params.FeeChangeDelay.String())
	require.Equal(t, int64(5), sc.Params.MinFeeCollection.Int64())
	require.Equal(t, 2026, sc.GenesisTime.Year())

	_, err = app.ScenarioFromMap(map[string]interface{}{"params": map[string]interface{}{"bogus": 1}})
	require.Error(t, err)
	_, err = app.ScenarioFromMap(map[string]interface{}{"roles": map[string]interface{}{"root": "x"}})
	require.Error(t, err)

	bad, err := app.ScenarioFromMap(map[string]interface{}{"swap_fee_bps": 5_000})
	require.NoError(t, err)
	_, err = bad.Genesis()
	require.Error(t, err)
}

func TestRunScenario_Observers(t *testing.T) {
	sc, err := app.ScenarioFromMap(map[string]interface{}{
		"roles": roles(),
		"steps": []interface{}{
			map[string]interface{}{"action": "pause", "actor": "ops"},
			map[string]interface{}{"action": "advance", "blocks": 3},
		},
	})
	require.NoError(t, err)

	var heights []int64
	var paused []bool
	_, err = app.RunScenario(log.NewNopLogger(), sc, func(a *app.PoolApp, _ app.StepResult) {
		status, err := a.HealthStatus()
		require.NoError(t, err)
		heights = append(heights, status.Height)
		paused = append(paused, status.Paused)
	})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 5}, heights)
	require.Equal(t, []bool{true, true}, paused)
}
