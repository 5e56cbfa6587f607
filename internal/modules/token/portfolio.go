package token

import (
	"github.com/shopspring/decimal"

	"proptoken/internal/domain"
)

// PortfolioPosition is one property slice of a buyer's portfolio.
type PortfolioPosition struct {
	PropertyID     int64           `json:"property_id"`
	Title          string          `json:"title"`
	Tokens         int64           `json:"tokens"`
	TotalTokens    int64           `json:"total_tokens"`
	OwnershipPct   decimal.Decimal `json:"ownership_pct"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	ReturnOnInvest decimal.Decimal `json:"roi_pct"`
}

var hundred = decimal.NewFromInt(100)

// OwnershipPercent is tokens held over total supply, as a percentage.
func OwnershipPercent(held, total int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(held).Div(decimal.NewFromInt(total)).Mul(hundred).Round(4)
}

// CurrentValue prices a holding against the property's present valuation,
// proportional to the owned share.
func CurrentValue(held, total int64, valuation decimal.Decimal) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return valuation.Mul(decimal.NewFromInt(held)).Div(decimal.NewFromInt(total)).Round(2)
}

// ROI is the percentage gain of current value over the amount invested.
func ROI(invested, current decimal.Decimal) decimal.Decimal {
	if !invested.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(invested).Div(invested).Mul(hundred).Round(2)
}

func buildPosition(p *domain.Property, issuance *domain.TokenIssuance, held int64, invested decimal.Decimal) PortfolioPosition {
	current := CurrentValue(held, issuance.TotalTokens, p.Valuation)
	return PortfolioPosition{
		PropertyID:     p.ID,
		Title:          p.Title,
		Tokens:         held,
		TotalTokens:    issuance.TotalTokens,
		OwnershipPct:   OwnershipPercent(held, issuance.TotalTokens),
		TotalInvested:  invested,
		CurrentValue:   current,
		ReturnOnInvest: ROI(invested, current),
	}
}
