package app

import (
	"encoding/json"
	"fmt"

	assetstypes "github.com/paw-chain/pawpool/x/assets/types"
	pooltypes "github.com/paw-chain/pawpool/x/pool/types"
)

// GenesisState is the genesis state of the simulator chain, keyed by module name.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns an empty ledger and a default 0.3% pool.
func NewDefaultGenesisState() GenesisState {
	return NewGenesisState(assetstypes.DefaultGenesis(), pooltypes.DefaultGenesis())
}

// NewGenesisState bundles the module genesis states.
func NewGenesisState(assets *assetstypes.GenesisState, pool *pooltypes.GenesisState) GenesisState {
	return GenesisState{
		assetstypes.ModuleName: mustMarshalJSON(assets),
		pooltypes.ModuleName:   mustMarshalJSON(pool),
	}
}

// Modules decodes the module genesis states, using defaults for missing entries.
func (gs GenesisState) Modules() (*assetstypes.GenesisState, *pooltypes.GenesisState, error) {
	assets := assetstypes.DefaultGenesis()
	if raw, ok := gs[assetstypes.ModuleName]; ok {
		if err := json.Unmarshal(raw, assets); err != nil {
			return nil, nil, fmt.Errorf("decode %s genesis: %w", assetstypes.ModuleName, err)
		}
	}
	pool := pooltypes.DefaultGenesis()
	if raw, ok := gs[pooltypes.ModuleName]; ok {
		if err := json.Unmarshal(raw, pool); err != nil {
			return nil, nil, fmt.Errorf("decode %s genesis: %w", pooltypes.ModuleName, err)
		}
	}
	return assets, pool, nil
}

// Validate validates every module genesis state.
func (gs GenesisState) Validate() error {
	for name := range gs {
		if name != assetstypes.ModuleName && name != pooltypes.ModuleName {
			return fmt.Errorf("unknown module %q in genesis", name)
		}
	}
	assets, pool, err := gs.Modules()
	if err != nil {
		return err
	}
	if err := assets.Validate(); err != nil {
		return fmt.Errorf("%s genesis: %w", assetstypes.ModuleName, err)
	}
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("%s genesis: %w", pooltypes.ModuleName, err)
	}
	return nil
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}
