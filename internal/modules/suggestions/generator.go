// Package suggestions generates rule-based portfolio recommendations from
// aggregate metrics. Every rule is evaluated independently; all matches are
// emitted in rule order.
package suggestions

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/foliotrack/internal/domain"
)

// concentrationWarningShare is the single-holding share of current value
// above which a concentration warning fires
const concentrationWarningShare = 0.30

// drawdownReviewPct is the total loss percentage below which an
// underperformer review is suggested
const drawdownReviewPct = -10.0

// Generator produces recommendation text from portfolio metrics
type Generator struct {
	log zerolog.Logger
}

// NewGenerator creates a new suggestion generator
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{
		log: log.With().Str("service", "suggestions").Logger(),
	}
}

// Generate returns the ordered list of suggestions for the given metrics.
// tolerance is optional; pass the empty string when the user has no stated
// preference. An empty result means the portfolio looks well balanced -
// rendering that message is the caller's concern.
func (g *Generator) Generate(
	portfolio domain.PortfolioMetrics,
	holdingMetrics []domain.HoldingMetrics,
	tolerance domain.RiskTolerance,
) []string {
	suggestions := []string{}

	hasCategory := make(map[domain.SecurityCategory]bool)
	currencies := make(map[string]bool)
	for _, hm := range holdingMetrics {
		hasCategory[hm.Category] = true
		currencies[hm.Currency] = true
	}

	if portfolio.DiversificationScore < 50 {
		suggestions = append(suggestions,
			"Your portfolio has low diversification. Consider spreading investments across more security types, countries, and currencies.")
	}

	if portfolio.DiversificationScore < 75 && !hasCategory[domain.CategoryBond] {
		suggestions = append(suggestions,
			"Consider adding bonds to your portfolio for stability and reduced volatility.")
	}

	if portfolio.DiversificationScore < 75 && !hasCategory[domain.CategoryETF] {
		suggestions = append(suggestions,
			"ETFs can provide broad market exposure and instant diversification at low cost.")
	}

	if portfolio.TotalProfitLossPercentage < drawdownReviewPct {
		suggestions = append(suggestions, fmt.Sprintf(
			"Your portfolio is down %.1f%%. Review your underperforming holdings and consider whether they still fit your strategy.",
			-portfolio.TotalProfitLossPercentage))
	}

	if portfolio.RiskLevel == domain.RiskHigh && tolerance == domain.ToleranceConservative {
		suggestions = append(suggestions,
			"Your portfolio risk is High but your stated tolerance is Conservative. Consider shifting toward lower-risk assets.")
	}

	if portfolio.RiskLevel == domain.RiskLow && tolerance == domain.ToleranceAggressive {
		suggestions = append(suggestions,
			"Your portfolio risk is Low but your stated tolerance is Aggressive. You may have room for higher-growth positions.")
	}

	if share, concentrated := maxHoldingShare(holdingMetrics, portfolio.CurrentValue); concentrated && share > concentrationWarningShare {
		suggestions = append(suggestions, fmt.Sprintf(
			"A single holding makes up %.0f%% of your portfolio value. Consider reducing concentration risk.", share*100))
	}

	if len(currencies) == 1 {
		suggestions = append(suggestions,
			"All holdings are in one currency. Diversifying across currencies can reduce exchange-rate risk.")
	}

	g.log.Debug().
		Int("holdings", len(holdingMetrics)).
		Int("suggestions", len(suggestions)).
		Msg("Generated suggestions")

	return suggestions
}

// maxHoldingShare returns the largest single-holding share of current value.
// The second result is false when the total is non-positive, so callers
// never divide by zero.
func maxHoldingShare(holdingMetrics []domain.HoldingMetrics, totalCurrentValue float64) (float64, bool) {
	if totalCurrentValue <= 0 || len(holdingMetrics) == 0 {
		return 0, false
	}
	maxShare := 0.0
	for _, hm := range holdingMetrics {
		share := hm.CurrentValueTarget / totalCurrentValue
		if share > maxShare {
			maxShare = share
		}
	}
	return maxShare, true
}
