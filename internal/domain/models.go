// Package domain provides core domain models and types.
package domain

import "time"

// SecurityCategory represents the type of a tracked investment
type SecurityCategory string

const (
	CategoryStock      SecurityCategory = "Stock"
	CategoryETF        SecurityCategory = "ETF"
	CategoryMutualFund SecurityCategory = "Mutual Fund"
	CategoryRealEstate SecurityCategory = "Real Estate"
	CategoryBond       SecurityCategory = "Bond"
	CategoryCrypto     SecurityCategory = "Crypto"
	CategoryOther      SecurityCategory = "Other"
)

// RiskLevel is the coarse risk bucket of a portfolio
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskTolerance is the user's stated risk preference
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "Conservative"
	ToleranceModerate     RiskTolerance = "Moderate"
	ToleranceAggressive   RiskTolerance = "Aggressive"
)

// Holding represents one tracked investment position as supplied by the caller.
// Purchase and current values are always derived, never stored.
type Holding struct {
	ID             string           `json:"id"`
	Country        string           `json:"country"`
	Category       SecurityCategory `json:"category"`
	Name           string           `json:"name"`
	InvestmentDate time.Time        `json:"investment_date"`
	PurchasePrice  float64          `json:"purchase_price"`
	Quantity       float64          `json:"quantity"`
	Currency       string           `json:"currency"`
	CurrentPrice   *float64         `json:"current_price,omitempty"`
	LastUpdated    *time.Time       `json:"last_updated,omitempty"`
}

// ResolveCurrentPrice returns the holding's current price, falling back to the
// purchase price when no price is available. A missing price is not an error:
// it means zero computed profit/loss until a price arrives.
func ResolveCurrentPrice(h Holding) float64 {
	if h.CurrentPrice != nil {
		return *h.CurrentPrice
	}
	return h.PurchasePrice
}

// PurchaseValue returns purchase price x quantity in the holding's currency
func (h Holding) PurchaseValue() float64 {
	return h.PurchasePrice * h.Quantity
}

// CurrentValue returns (current price or purchase price) x quantity in the
// holding's currency
func (h Holding) CurrentValue() float64 {
	return ResolveCurrentPrice(h) * h.Quantity
}

// Conversion is the result of converting an amount between two currencies
type Conversion struct {
	Amount          float64 `json:"amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	Rate            float64 `json:"rate"`
	ConvertedAmount float64 `json:"converted_amount"`
}

// HoldingMetrics is the derived, read-only per-holding record produced by the
// metrics calculator. All monetary fields are expressed in the target
// reporting currency of the calculation call.
type HoldingMetrics struct {
	Holding
	CurrentValueTarget   float64  `json:"current_value"`
	ProfitLoss           float64  `json:"profit_loss"`
	ProfitLossPercentage float64  `json:"profit_loss_percentage"`
	DaysSinceInvestment  int      `json:"days_since_investment"`
	AnnualizedReturn     *float64 `json:"annualized_return,omitempty"`
}

// PortfolioMetrics is the aggregate result of one calculation call.
// It has no independent identity and is recomputed fresh every time.
type PortfolioMetrics struct {
	TotalInvestment           float64          `json:"total_investment"`
	CurrentValue              float64          `json:"current_value"`
	TotalProfitLoss           float64          `json:"total_profit_loss"`
	TotalProfitLossPercentage float64          `json:"total_profit_loss_percentage"`
	TopPerformers             []HoldingMetrics `json:"top_performers"`
	UnderPerformers           []HoldingMetrics `json:"under_performers"`
	DiversificationScore      int              `json:"diversification_score"`
	RiskLevel                 RiskLevel        `json:"risk_level"`
}
