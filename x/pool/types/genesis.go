package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PositionRecord is an exported claim balance.
type PositionRecord struct {
	Holder string   `json:"holder"`
	Shares math.Int `json:"shares"`
}

// FeeAccrualRecord is an exported fee accrual record.
type FeeAccrualRecord struct {
	Holder  string     `json:"holder"`
	Accrual FeeAccrual `json:"accrual"`
}

// GenesisState defines the pool module's genesis state.
//
// A fresh chain only sets Params, the asset pair, the initial fee and the role grants.
// Exported state additionally carries Pool and everything hanging off it.
type GenesisState struct {
	Params     Params      `json:"params"`
	AssetA     string      `json:"asset_a"`
	AssetB     string      `json:"asset_b"`
	SwapFeeBps uint32      `json:"swap_fee_bps"`
	Roles      []RoleGrant `json:"roles"`

	Pool           *Pool              `json:"pool,omitempty"`
	Positions      []PositionRecord   `json:"positions,omitempty"`
	FeeAccruals    []FeeAccrualRecord `json:"fee_accruals,omitempty"`
	Proposals      []FeeProposal      `json:"proposals,omitempty"`
	NextProposalID uint64             `json:"next_proposal_id,omitempty"`
	Snapshot       *EmergencySnapshot `json:"snapshot,omitempty"`
	Paused         bool               `json:"paused,omitempty"`
}

// DefaultGenesis returns the default genesis state: a 0.3% pool with no roles granted.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		AssetA:     "uasseta",
		AssetB:     "uassetb",
		SwapFeeBps: 30,
		Roles:      []RoleGrant{},
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	for i, grant := range gs.Roles {
		if err := grant.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("role grant %d: %v", i, err)
		}
	}

	if gs.Pool == nil {
		if err := ValidateAssetPair(gs.AssetA, gs.AssetB); err != nil {
			return err
		}
		return ValidateSwapFee(gs.SwapFeeBps)
	}

	pool := *gs.Pool
	if err := pool.Validate(); err != nil {
		return err
	}
	if pool.AssetA != gs.AssetA || pool.AssetB != gs.AssetB {
		return ErrInvalidGenesis.Wrapf("pool assets %s/%s differ from genesis assets %s/%s",
			pool.AssetA, pool.AssetB, gs.AssetA, gs.AssetB)
	}

	seen := make(map[string]bool, len(gs.Positions))
	sum := math.ZeroInt()
	for _, pos := range gs.Positions {
		if _, err := sdk.AccAddressFromBech32(pos.Holder); err != nil {
			return ErrInvalidGenesis.Wrapf("position holder %q: %v", pos.Holder, err)
		}
		if seen[pos.Holder] {
			return ErrInvalidGenesis.Wrapf("duplicate position for %s", pos.Holder)
		}
		seen[pos.Holder] = true
		if pos.Shares.IsNil() || !pos.Shares.IsPositive() {
			return ErrInvalidGenesis.Wrapf("position %s must hold positive shares", pos.Holder)
		}
		sum = sum.Add(pos.Shares)
	}
	if !sum.Equal(pool.TotalSupply) {
		return ErrInvalidGenesis.Wrapf("positions sum to %s, pool supply is %s", sum, pool.TotalSupply)
	}

	for _, rec := range gs.FeeAccruals {
		if _, err := sdk.AccAddressFromBech32(rec.Holder); err != nil {
			return ErrInvalidGenesis.Wrapf("fee accrual holder %q: %v", rec.Holder, err)
		}
	}

	for _, p := range gs.Proposals {
		if err := ValidateSwapFee(p.NewFeeBps); err != nil {
			return ErrInvalidGenesis.Wrapf("proposal %d: %v", p.ID, err)
		}
		if p.ID >= gs.NextProposalID {
			return ErrInvalidGenesis.Wrapf("proposal id %d not below next id %d", p.ID, gs.NextProposalID)
		}
	}

	if pool.Halted != (gs.Snapshot != nil) {
		return ErrInvalidGenesis.Wrap("halted flag and emergency snapshot must be set together")
	}

	return nil
}
