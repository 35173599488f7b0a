package types_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawpool/x/pool/types"
)

func TestParams_Validate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(p *types.Params)
	}{
		{"zero ratio tolerance", func(p *types.Params) { p.RatioToleranceBps = 0 }},
		{"ratio tolerance above range", func(p *types.Params) { p.RatioToleranceBps = types.MaxRatioToleranceBps + 1 }},
		{"protocol share above denominator", func(p *types.Params) { p.ProtocolFeeShareBps = types.FeeDenominator + 1 }},
		{"zero max swap fraction", func(p *types.Params) { p.MaxSwapFractionBps = 0 }},
		{"drift tolerance below range", func(p *types.Params) { p.DriftToleranceBps = types.MinDriftToleranceBps - 1 }},
		{"drift tolerance above range", func(p *types.Params) { p.DriftToleranceBps = types.MaxDriftToleranceBps + 1 }},
		{"nil min fee collection", func(p *types.Params) { p.MinFeeCollection = math.Int{} }},
		{"zero min fee collection", func(p *types.Params) { p.MinFeeCollection = math.ZeroInt() }},
		{"tiny max deposit", func(p *types.Params) { p.MaxDepositAmount = math.NewInt(types.MinimumLiquidity - 1) }},
		{"zero fee change delay", func(p *types.Params) { p.FeeChangeDelay = 0 }},
		{"negative fee change delay", func(p *types.Params) { p.FeeChangeDelay = -time.Hour }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := types.DefaultParams()
			tc.mutate(&p)
			require.ErrorIs(t, p.Validate(), types.ErrInvalidParams)
		})
	}
}

func TestParams_Boundaries(t *testing.T) {
	p := types.DefaultParams()
	p.ProtocolFeeShareBps = 0
	p.MaxSwapFractionBps = types.FeeDenominator
	p.DriftToleranceBps = types.MinDriftToleranceBps
	require.NoError(t, p.Validate())

	p.ProtocolFeeShareBps = types.FeeDenominator
	p.DriftToleranceBps = types.MaxDriftToleranceBps
	require.NoError(t, p.Validate())
}

func TestValidateSwapFee(t *testing.T) {
	require.NoError(t, types.ValidateSwapFee(types.MinSwapFeeBps))
	require.NoError(t, types.ValidateSwapFee(30))
	require.NoError(t, types.ValidateSwapFee(types.MaxSwapFeeBps))
	require.ErrorIs(t, types.ValidateSwapFee(0), types.ErrInvalidFee)
	require.ErrorIs(t, types.ValidateSwapFee(types.MaxSwapFeeBps+1), types.ErrInvalidFee)
}

func TestDefaultMaxDepositAmount(t *testing.T) {
	require.Equal(t, 112, types.DefaultMaxDepositAmount.BigInt().BitLen())
	require.Equal(t, "5192296858534827628530496329220095", types.DefaultMaxDepositAmount.String())
}
