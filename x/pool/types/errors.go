package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Pool module sentinel errors
var (
	ErrInvalidAmount           = errors.Register(ModuleName, 2, "invalid amount")
	ErrAmountTooLarge          = errors.Register(ModuleName, 3, "amount exceeds per-call ceiling")
	ErrInvalidAsset            = errors.Register(ModuleName, 4, "invalid asset")
	ErrIdenticalAssets         = errors.Register(ModuleName, 5, "pool assets must be distinct")
	ErrInsufficientLiquidity   = errors.Register(ModuleName, 6, "insufficient liquidity")
	ErrRatioMismatch           = errors.Register(ModuleName, 7, "deposit ratio outside tolerance")
	ErrSlippageExceeded        = errors.Register(ModuleName, 8, "output below caller minimum")
	ErrDeadlineExceeded        = errors.Register(ModuleName, 9, "deadline exceeded")
	ErrSwapTooLarge            = errors.Register(ModuleName, 10, "swap exceeds maximum fraction of reserve")
	ErrReserveDrift            = errors.Register(ModuleName, 11, "tracked reserve drifted from actual balance")
	ErrReentrancy              = errors.Register(ModuleName, 12, "reentrant call")
	ErrUnauthorized            = errors.Register(ModuleName, 13, "unauthorized")
	ErrPoolPaused              = errors.Register(ModuleName, 14, "trading is paused")
	ErrPoolHalted              = errors.Register(ModuleName, 15, "pool is halted for emergency unwind")
	ErrPoolNotHalted           = errors.Register(ModuleName, 16, "pool is not halted")
	ErrTimelockNotMature       = errors.Register(ModuleName, 17, "timelock proposal not mature")
	ErrProposalNotFound        = errors.Register(ModuleName, 18, "timelock proposal not found")
	ErrInvalidFee              = errors.Register(ModuleName, 19, "invalid swap fee")
	ErrTransferFailed          = errors.Register(ModuleName, 20, "asset transfer failed")
	ErrInsufficientShares      = errors.Register(ModuleName, 21, "insufficient claim tokens")
	ErrInvariantViolation      = errors.Register(ModuleName, 22, "pool invariant violated")
	ErrPoolNotInitialized      = errors.Register(ModuleName, 23, "pool not initialized")
	ErrBelowCollectionMinimum  = errors.Register(ModuleName, 24, "owed fees below collection minimum")
	ErrInvalidParams           = errors.Register(ModuleName, 25, "invalid params")
	ErrProtectedAsset          = errors.Register(ModuleName, 26, "asset is one of the pool assets")
	ErrInvalidAddress          = errors.Register(ModuleName, 27, "invalid address")
	ErrZeroOutput              = errors.Register(ModuleName, 28, "trade output rounds to zero")
	ErrInvalidRole             = errors.Register(ModuleName, 29, "invalid role")
	ErrInvalidDirection        = errors.Register(ModuleName, 30, "invalid swap direction")
	ErrInvalidGenesis          = errors.Register(ModuleName, 31, "invalid genesis state")
	ErrPoolAlreadyInitialized  = errors.Register(ModuleName, 32, "pool already initialized")
	ErrNoClaimSupply           = errors.Register(ModuleName, 33, "claim token supply is zero")
	ErrNothingToSkim           = errors.Register(ModuleName, 34, "no balance above liabilities")
	ErrNotPaused               = errors.Register(ModuleName, 35, "trading is not paused")
)

// RatioMismatchError reports a second-asset deposit outside the tolerance band.
// It unwraps to ErrRatioMismatch.
type RatioMismatchError struct {
	Expected     math.Int
	Provided     math.Int
	ToleranceBps uint32
}

func (e *RatioMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s (±%d bps), provided %s",
		ErrRatioMismatch.Error(), e.Expected, e.ToleranceBps, e.Provided)
}

func (e *RatioMismatchError) Unwrap() error { return ErrRatioMismatch }

// SlippageError reports an output below the caller supplied minimum.
// It unwraps to ErrSlippageExceeded.
type SlippageError struct {
	Asset   string
	Minimum math.Int
	Actual  math.Int
}

func (e *SlippageError) Error() string {
	return fmt.Sprintf("%s: %s expected at least %s, got %s",
		ErrSlippageExceeded.Error(), e.Asset, e.Minimum, e.Actual)
}

func (e *SlippageError) Unwrap() error { return ErrSlippageExceeded }
