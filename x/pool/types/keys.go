package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "pool"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// SinkName names the module account that permanently holds MinimumLiquidity claim tokens.
	SinkName = "pool_minimum_liquidity"
)

const (
	// FeeDenominator is the basis point denominator for all fractional parameters.
	FeeDenominator = 10000

	// MinimumLiquidity is minted to the sink on the first deposit and can never be redeemed.
	MinimumLiquidity = 1000

	// MinSwapFeeBps and MaxSwapFeeBps bound the pool swap fee (0.01% to 10%).
	MinSwapFeeBps = 1
	MaxSwapFeeBps = 1000
)

// Store key prefixes
var (
	PoolKey             = []byte{0x01}
	ParamsKey           = []byte{0x02}
	PositionKeyPrefix   = []byte{0x03}
	FeeAccrualKeyPrefix = []byte{0x04}
	RoleKeyPrefix       = []byte{0x05}
	ProposalKeyPrefix   = []byte{0x06}
	ProposalSeqKey      = []byte{0x07}
	SnapshotKey         = []byte{0x08}
	PausedKey           = []byte{0x09}
	ReentrancyLockKey   = []byte{0x0A}
)

// PositionKey returns the store key for a holder's claim balance
func PositionKey(holder sdk.AccAddress) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), address.MustLengthPrefix(holder)...)
}

// FeeAccrualKey returns the store key for a holder's fee accrual record
func FeeAccrualKey(holder sdk.AccAddress) []byte {
	return append(append([]byte{}, FeeAccrualKeyPrefix...), address.MustLengthPrefix(holder)...)
}

// RoleKey returns the membership key for (role, account)
func RoleKey(role Role, account sdk.AccAddress) []byte {
	key := append(append([]byte{}, RoleKeyPrefix...), byte(role))
	return append(key, address.MustLengthPrefix(account)...)
}

// RolePrefix returns the prefix under which all members of a role are stored
func RolePrefix(role Role) []byte {
	return append(append([]byte{}, RoleKeyPrefix...), byte(role))
}

// ProposalKey returns the store key for a timelock proposal
func ProposalKey(id uint64) []byte {
	return append(append([]byte{}, ProposalKeyPrefix...), sdk.Uint64ToBigEndian(id)...)
}
