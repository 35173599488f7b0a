package types

// Event types for the pool module
const (
	EventTypeLiquidityAdded        = "liquidity_added"
	EventTypeLiquidityRemoved      = "liquidity_removed"
	EventTypeTradeExecuted         = "trade_executed"
	EventTypeFeesCollected         = "fees_collected"
	EventTypeProtocolFeesCollected = "protocol_fees_collected"
	EventTypeSharesTransferred     = "shares_transferred"

	EventTypeFeeProposed           = "fee_proposed"
	EventTypeFeeUpdated            = "fee_updated"
	EventTypeFeeProposalCancelled  = "fee_proposal_cancelled"
	EventTypePaused                = "trading_paused"
	EventTypeUnpaused              = "trading_unpaused"
	EventTypeRoleGranted           = "role_granted"
	EventTypeRoleRevoked           = "role_revoked"
	EventTypeForeignAssetRecovered = "foreign_asset_recovered"
	EventTypeSkimmed               = "excess_skimmed"

	EventTypeEmergencyInitiated = "emergency_initiated"
	EventTypeEmergencyRedeemed  = "emergency_redeemed"
)

// Event attribute keys
const (
	AttributeKeyProvider     = "provider"
	AttributeKeyTrader       = "trader"
	AttributeKeyHolder       = "holder"
	AttributeKeyRecipient    = "recipient"
	AttributeKeySender       = "sender"
	AttributeKeyActor        = "actor"
	AttributeKeyAccount      = "account"
	AttributeKeyRole         = "role"
	AttributeKeyAsset        = "asset"
	AttributeKeyAssetIn      = "asset_in"
	AttributeKeyAssetOut     = "asset_out"
	AttributeKeyAmount       = "amount"
	AttributeKeyAmountA      = "amount_a"
	AttributeKeyAmountB      = "amount_b"
	AttributeKeyAmountIn     = "amount_in"
	AttributeKeyAmountOut    = "amount_out"
	AttributeKeyFee          = "fee"
	AttributeKeyLPFee        = "lp_fee"
	AttributeKeyProtocolFee  = "protocol_fee"
	AttributeKeyShares       = "shares"
	AttributeKeySupply       = "supply"
	AttributeKeyReserveA     = "reserve_a"
	AttributeKeyReserveB     = "reserve_b"
	AttributeKeyOldFee       = "old_fee_bps"
	AttributeKeyNewFee       = "new_fee_bps"
	AttributeKeyProposalID   = "proposal_id"
	AttributeKeyExecutableAt = "executable_at"
	AttributeKeyHeight       = "height"
)
