package types

import (
	"cosmossdk.io/errors"
)

// Assets module sentinel errors
var (
	ErrInvalidAmount         = errors.Register(ModuleName, 2, "invalid amount")
	ErrInvalidAsset          = errors.Register(ModuleName, 3, "invalid asset")
	ErrInsufficientBalance   = errors.Register(ModuleName, 4, "insufficient balance")
	ErrInsufficientAllowance = errors.Register(ModuleName, 5, "insufficient allowance")
	ErrInvalidAddress        = errors.Register(ModuleName, 6, "invalid address")
)
