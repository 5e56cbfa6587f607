package token

type PurchaseRequest struct {
	PropertyID int64 `json:"property_id" binding:"required"`
	Tokens     int64 `json:"tokens" binding:"required,gt=0"`
}
