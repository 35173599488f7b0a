package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "assets"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	BalanceKeyPrefix   = []byte{0x01}
	AllowanceKeyPrefix = []byte{0x02}
	SupplyKeyPrefix    = []byte{0x03}
)

// BalanceKey returns the store key for account's balance of asset
func BalanceKey(account sdk.AccAddress, asset string) []byte {
	key := append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(account)...)
	return append(key, []byte(asset)...)
}

// AllowanceKey returns the store key for spender's allowance over owner's asset
func AllowanceKey(owner, spender sdk.AccAddress, asset string) []byte {
	key := append(append([]byte{}, AllowanceKeyPrefix...), address.MustLengthPrefix(owner)...)
	key = append(key, address.MustLengthPrefix(spender)...)
	return append(key, []byte(asset)...)
}

// SupplyKey returns the store key for the total supply of asset
func SupplyKey(asset string) []byte {
	return append(append([]byte{}, SupplyKeyPrefix...), []byte(asset)...)
}
