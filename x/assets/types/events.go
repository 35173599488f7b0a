package types

// Event types for the assets module
const (
	EventTypeTransfer = "asset_transfer"
	EventTypeApproval = "asset_approval"
	EventTypeMint     = "asset_mint"

	AttributeKeyAsset   = "asset"
	AttributeKeyFrom    = "from"
	AttributeKeyTo      = "to"
	AttributeKeyOwner   = "owner"
	AttributeKeySpender = "spender"
	AttributeKeyAmount  = "amount"
)
