package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is an exported account balance for one asset.
type Balance struct {
	Address string   `json:"address"`
	Asset   string   `json:"asset"`
	Amount  math.Int `json:"amount"`
}

// GenesisState defines the assets module's genesis state.
type GenesisState struct {
	Balances []Balance `json:"balances"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{Balances: []Balance{}}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	seen := make(map[string]bool, len(gs.Balances))
	for i, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidAddress.Wrapf("balance %d: %v", i, err)
		}
		if err := sdk.ValidateDenom(b.Asset); err != nil {
			return ErrInvalidAsset.Wrapf("balance %d: %v", i, err)
		}
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return ErrInvalidAmount.Wrapf("balance %d: negative amount", i)
		}
		id := b.Address + "/" + b.Asset
		if seen[id] {
			return ErrInvalidAmount.Wrapf("duplicate balance for %s", id)
		}
		seen[id] = true
	}
	return nil
}
