package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// Bech32PrefixAccAddr defines the Bech32 prefix of an account's address
	Bech32PrefixAccAddr = "paw"
	// Bech32PrefixAccPub defines the Bech32 prefix of an account's public key
	Bech32PrefixAccPub = "pawpub"

	// DefaultChainID is used when the caller does not name a chain.
	DefaultChainID = "pawpool-sim-1"

	// DefaultBlockInterval is the block time advance used by NextBlock callers that do not
	// pick one.
	DefaultBlockInterval = 6 // seconds
)

// SetConfig sets the bech32 account prefix for the PAW network
func SetConfig() {
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(Bech32PrefixAccAddr, Bech32PrefixAccPub)
	config.Seal()
}
