package types

import (
	"strings"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is the reserve ledger of the single pool owned by the keeper.
//
// ReserveA/ReserveB are the pool's own bookkeeping and are never read from the asset
// ledger while pricing. Fees are held outside the reserves: LPFeeBalance is the whole-unit
// amount owed to claim holders and ProtocolFees the treasury share. FeeGrowth is the
// cumulative LP fee per claim token, used to settle each holder's FeeAccrual lazily.
type Pool struct {
	AssetA      string   `json:"asset_a"`
	AssetB      string   `json:"asset_b"`
	SwapFeeBps  uint32   `json:"swap_fee_bps"`
	ReserveA    math.Int `json:"reserve_a"`
	ReserveB    math.Int `json:"reserve_b"`
	TotalSupply math.Int `json:"total_supply"`

	FeeGrowthA    math.LegacyDec `json:"fee_growth_a"`
	FeeGrowthB    math.LegacyDec `json:"fee_growth_b"`
	LPFeeBalanceA math.Int       `json:"lp_fee_balance_a"`
	LPFeeBalanceB math.Int       `json:"lp_fee_balance_b"`
	ProtocolFeesA math.Int       `json:"protocol_fees_a"`
	ProtocolFeesB math.Int       `json:"protocol_fees_b"`
	Halted        bool           `json:"halted"`
	CreatedHeight int64          `json:"created_height"`
}

// NewPool returns an empty pool for the asset pair.
func NewPool(assetA, assetB string, swapFeeBps uint32, height int64) Pool {
	return Pool{
		AssetA:        assetA,
		AssetB:        assetB,
		SwapFeeBps:    swapFeeBps,
		ReserveA:      math.ZeroInt(),
		ReserveB:      math.ZeroInt(),
		TotalSupply:   math.ZeroInt(),
		FeeGrowthA:    math.LegacyZeroDec(),
		FeeGrowthB:    math.LegacyZeroDec(),
		LPFeeBalanceA: math.ZeroInt(),
		LPFeeBalanceB: math.ZeroInt(),
		ProtocolFeesA: math.ZeroInt(),
		ProtocolFeesB: math.ZeroInt(),
		CreatedHeight: height,
	}
}

// ValidateAssetPair checks both asset identifiers are valid denoms and distinct.
func ValidateAssetPair(assetA, assetB string) error {
	if strings.TrimSpace(assetA) == "" || strings.TrimSpace(assetB) == "" {
		return ErrInvalidAsset.Wrap("asset identifiers cannot be empty")
	}
	if err := sdk.ValidateDenom(assetA); err != nil {
		return ErrInvalidAsset.Wrapf("asset A: %v", err)
	}
	if err := sdk.ValidateDenom(assetB); err != nil {
		return ErrInvalidAsset.Wrapf("asset B: %v", err)
	}
	if assetA == assetB {
		return ErrIdenticalAssets.Wrapf("%s/%s", assetA, assetB)
	}
	return nil
}

// Validate performs pool state validation
func (p Pool) Validate() error {
	if err := ValidateAssetPair(p.AssetA, p.AssetB); err != nil {
		return err
	}
	if err := ValidateSwapFee(p.SwapFeeBps); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    math.Int
	}{
		{"reserve A", p.ReserveA},
		{"reserve B", p.ReserveB},
		{"total supply", p.TotalSupply},
		{"LP fee balance A", p.LPFeeBalanceA},
		{"LP fee balance B", p.LPFeeBalanceB},
		{"protocol fees A", p.ProtocolFeesA},
		{"protocol fees B", p.ProtocolFeesB},
	} {
		if f.v.IsNil() || f.v.IsNegative() {
			return ErrInvariantViolation.Wrapf("%s must be non-negative", f.name)
		}
	}
	if p.Halted {
		return nil
	}
	if p.ReserveA.IsPositive() != p.ReserveB.IsPositive() {
		return ErrInvariantViolation.Wrapf("one-sided reserves: %s/%s", p.ReserveA, p.ReserveB)
	}
	if p.TotalSupply.IsZero() != p.ReserveA.IsZero() {
		return ErrInvariantViolation.Wrapf("supply %s inconsistent with reserves %s/%s",
			p.TotalSupply, p.ReserveA, p.ReserveB)
	}
	return nil
}

// IsEmpty reports whether no liquidity has been deposited yet.
func (p Pool) IsEmpty() bool {
	return p.TotalSupply.IsZero()
}

// Reserves returns (reserveIn, reserveOut) for a trade direction.
func (p Pool) Reserves(d Direction) (math.Int, math.Int) {
	if d == DirectionBToA {
		return p.ReserveB, p.ReserveA
	}
	return p.ReserveA, p.ReserveB
}

// Assets returns (assetIn, assetOut) for a trade direction.
func (p Pool) Assets(d Direction) (string, string) {
	if d == DirectionBToA {
		return p.AssetB, p.AssetA
	}
	return p.AssetA, p.AssetB
}

// IsPoolAsset reports whether asset is one of the two traded assets.
func (p Pool) IsPoolAsset(asset string) bool {
	return asset == p.AssetA || asset == p.AssetB
}

// Direction selects which asset is sold into the pool.
type Direction uint8

const (
	DirectionUnspecified Direction = iota
	DirectionAToB
	DirectionBToA
)

func (d Direction) String() string {
	switch d {
	case DirectionAToB:
		return "a_to_b"
	case DirectionBToA:
		return "b_to_a"
	default:
		return "unspecified"
	}
}

// Validate rejects the unspecified direction.
func (d Direction) Validate() error {
	if d != DirectionAToB && d != DirectionBToA {
		return ErrInvalidDirection.Wrapf("direction %d", uint8(d))
	}
	return nil
}

// ParseDirection accepts "a_to_b"/"ab" and "b_to_a"/"ba".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a_to_b", "ab", "a->b":
		return DirectionAToB, nil
	case "b_to_a", "ba", "b->a":
		return DirectionBToA, nil
	}
	return DirectionUnspecified, ErrInvalidDirection.Wrapf("unknown direction %q", s)
}

// FeeAccrual is a holder's owed LP fees in fractional units together with the fee growth
// values at which they were last settled.
type FeeAccrual struct {
	OwedA       math.LegacyDec `json:"owed_a"`
	OwedB       math.LegacyDec `json:"owed_b"`
	CheckpointA math.LegacyDec `json:"checkpoint_a"`
	CheckpointB math.LegacyDec `json:"checkpoint_b"`
}

// NewFeeAccrual returns an empty record checkpointed at the given growth values.
func NewFeeAccrual(growthA, growthB math.LegacyDec) FeeAccrual {
	return FeeAccrual{
		OwedA:       math.LegacyZeroDec(),
		OwedB:       math.LegacyZeroDec(),
		CheckpointA: growthA,
		CheckpointB: growthB,
	}
}

// IsZero reports whether nothing is owed.
func (f FeeAccrual) IsZero() bool {
	return f.OwedA.IsZero() && f.OwedB.IsZero()
}

// EmergencySnapshot is latched once when the emergency unwind starts.
type EmergencySnapshot struct {
	Supply   math.Int  `json:"supply"`
	BalanceA math.Int  `json:"balance_a"`
	BalanceB math.Int  `json:"balance_b"`
	Height   int64     `json:"height"`
	Time     time.Time `json:"time"`
}

// Payout returns floor(balance * claim / supply) for each asset.
func (s EmergencySnapshot) Payout(claim math.Int) (math.Int, math.Int) {
	if s.Supply.IsZero() {
		return math.ZeroInt(), math.ZeroInt()
	}
	return s.BalanceA.Mul(claim).Quo(s.Supply), s.BalanceB.Mul(claim).Quo(s.Supply)
}

// FeeProposal is a queued swap fee change.
type FeeProposal struct {
	ID           uint64    `json:"id"`
	NewFeeBps    uint32    `json:"new_fee_bps"`
	Proposer     string    `json:"proposer"`
	ProposedAt   time.Time `json:"proposed_at"`
	ExecutableAt time.Time `json:"executable_at"`
}

// IsMature reports whether the proposal may execute at blockTime.
func (p FeeProposal) IsMature(blockTime time.Time) bool {
	return !blockTime.Before(p.ExecutableAt)
}
