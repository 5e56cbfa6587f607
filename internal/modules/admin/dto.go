package admin

import "github.com/shopspring/decimal"

type DecisionRequest struct {
	Notes string `json:"notes"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type IssueTokensRequest struct {
	TotalTokens   int64           `json:"total_tokens" binding:"required,gt=0"`
	PricePerToken decimal.Decimal `json:"price_per_token" binding:"required"`
}

// Statistics is the admin dashboard snapshot.
type Statistics struct {
	TotalUsers           int64           `json:"total_users"`
	PendingVerifications int64           `json:"pending_verifications"`
	PendingProperties    int64           `json:"pending_properties"`
	TokenizedProperties  int64           `json:"tokenized_properties"`
	TotalPurchases       int64           `json:"total_purchases"`
	TotalVolume          decimal.Decimal `json:"total_volume"`
}
