package types

import (
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
)

// Default parameter values
const (
	DefaultRatioToleranceBps   uint32 = 100  // 1%
	DefaultProtocolFeeShareBps uint32 = 1000 // 10% of each trade fee
	DefaultMaxSwapFractionBps  uint32 = 300  // 3% of the input reserve
	DefaultDriftToleranceBps   uint32 = 10   // 0.1% of the tracked reserve

	DefaultFeeChangeDelay = 48 * time.Hour

	// MinDriftToleranceBps and MaxDriftToleranceBps bound the reconciliation band (0.1% to 10%).
	MinDriftToleranceBps uint32 = 10
	MaxDriftToleranceBps uint32 = 1000

	// MaxRatioToleranceBps caps the deposit ratio band at 10%.
	MaxRatioToleranceBps uint32 = 1000
)

// DefaultMaxDepositAmount bounds a single deposit so sqrt(a*b) and supply*amount stay well
// inside math.Int's 256 bit range.
var DefaultMaxDepositAmount = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1)))

// Params holds the pool configuration fixed at genesis. Only the swap fee on the pool
// itself changes afterwards, and only through the fee timelock.
type Params struct {
	RatioToleranceBps   uint32        `json:"ratio_tolerance_bps" yaml:"ratio_tolerance_bps"`
	ProtocolFeeShareBps uint32        `json:"protocol_fee_share_bps" yaml:"protocol_fee_share_bps"`
	MaxSwapFractionBps  uint32        `json:"max_swap_fraction_bps" yaml:"max_swap_fraction_bps"`
	DriftToleranceBps   uint32        `json:"drift_tolerance_bps" yaml:"drift_tolerance_bps"`
	MinFeeCollection    math.Int      `json:"min_fee_collection" yaml:"min_fee_collection"`
	MaxDepositAmount    math.Int      `json:"max_deposit_amount" yaml:"max_deposit_amount"`
	FeeChangeDelay      time.Duration `json:"fee_change_delay" yaml:"fee_change_delay"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		RatioToleranceBps:   DefaultRatioToleranceBps,
		ProtocolFeeShareBps: DefaultProtocolFeeShareBps,
		MaxSwapFractionBps:  DefaultMaxSwapFractionBps,
		DriftToleranceBps:   DefaultDriftToleranceBps,
		MinFeeCollection:    math.OneInt(),
		MaxDepositAmount:    DefaultMaxDepositAmount,
		FeeChangeDelay:      DefaultFeeChangeDelay,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.RatioToleranceBps == 0 || p.RatioToleranceBps > MaxRatioToleranceBps {
		return ErrInvalidParams.Wrapf("ratio tolerance %d bps must be in [1, %d]", p.RatioToleranceBps, MaxRatioToleranceBps)
	}
	if p.ProtocolFeeShareBps > FeeDenominator {
		return ErrInvalidParams.Wrapf("protocol fee share %d bps exceeds %d", p.ProtocolFeeShareBps, FeeDenominator)
	}
	if p.MaxSwapFractionBps == 0 || p.MaxSwapFractionBps > FeeDenominator {
		return ErrInvalidParams.Wrapf("max swap fraction %d bps must be in [1, %d]", p.MaxSwapFractionBps, FeeDenominator)
	}
	if p.DriftToleranceBps < MinDriftToleranceBps || p.DriftToleranceBps > MaxDriftToleranceBps {
		return ErrInvalidParams.Wrapf("drift tolerance %d bps must be in [%d, %d]",
			p.DriftToleranceBps, MinDriftToleranceBps, MaxDriftToleranceBps)
	}
	if p.MinFeeCollection.IsNil() || !p.MinFeeCollection.IsPositive() {
		return ErrInvalidParams.Wrap("min fee collection must be positive")
	}
	if p.MaxDepositAmount.IsNil() || p.MaxDepositAmount.LT(math.NewInt(MinimumLiquidity)) {
		return ErrInvalidParams.Wrapf("max deposit amount must be at least %d", MinimumLiquidity)
	}
	if p.FeeChangeDelay <= 0 {
		return ErrInvalidParams.Wrapf("fee change delay must be positive, got %s", p.FeeChangeDelay)
	}
	return nil
}

// String implements fmt.Stringer
func (p Params) String() string {
	return fmt.Sprintf(
		"ratio_tolerance_bps=%d protocol_fee_share_bps=%d max_swap_fraction_bps=%d drift_tolerance_bps=%d min_fee_collection=%s max_deposit_amount=%s fee_change_delay=%s",
		p.RatioToleranceBps, p.ProtocolFeeShareBps, p.MaxSwapFractionBps, p.DriftToleranceBps,
		p.MinFeeCollection, p.MaxDepositAmount, p.FeeChangeDelay,
	)
}

// ValidateSwapFee checks a fee is within [MinSwapFeeBps, MaxSwapFeeBps].
func ValidateSwapFee(feeBps uint32) error {
	if feeBps < MinSwapFeeBps || feeBps > MaxSwapFeeBps {
		return ErrInvalidFee.Wrapf("swap fee %d bps must be in [%d, %d]", feeBps, MinSwapFeeBps, MaxSwapFeeBps)
	}
	return nil
}
