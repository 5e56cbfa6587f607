package listing

import (
	"strings"

	"github.com/shopspring/decimal"

	"proptoken/internal/domain"
)

type PropertyInput struct {
	Title          string          `json:"title" binding:"required"`
	Address        string          `json:"address" binding:"required"`
	PropertyType   string          `json:"property_type" binding:"required,oneof=residential commercial land industrial"`
	Valuation      decimal.Decimal `json:"valuation" binding:"required"`
	Description    string          `json:"description"`
	Highlights     string          `json:"highlights"`
	Images         []string        `json:"images"`
	ExpectedTokens int64           `json:"expected_tokens"`
}

func (in *PropertyInput) apply(p *domain.Property) {
	p.Title = strings.TrimSpace(in.Title)
	p.Address = strings.TrimSpace(in.Address)
	p.PropertyType = domain.PropertyType(in.PropertyType)
	p.Valuation = in.Valuation
	p.Description = strings.TrimSpace(in.Description)
	p.Highlights = strings.TrimSpace(in.Highlights)
	p.Images = in.Images
	p.ExpectedTokens = in.ExpectedTokens
}

type DecisionRequest struct {
	Notes string `json:"notes"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type IssueTokensRequest struct {
	TotalTokens   int64           `json:"total_tokens" binding:"required"`
	PricePerToken decimal.Decimal `json:"price_per_token" binding:"required"`
}
