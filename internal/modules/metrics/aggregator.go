package metrics

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/foliotrack/internal/domain"
)

// Diversification sub-score weights and caps. Fixed domain policy: the exact
// point values are part of the scoring contract, not tunables.
const (
	categoryDiversityPoints = 6
	categoryDiversityCap    = 30
	countryDiversityPoints  = 5
	countryDiversityCap     = 25
	currencyDiversityPoints = 4
	currencyDiversityCap    = 20
	concentrationPoints     = 25
)

// Risk score weights and bracket thresholds
const (
	volatileCategoryPoints    = 40
	lowDiversificationPoints  = 30
	midDiversificationPoints  = 15
	singleCountryPoints       = 20
	dualCountryPoints         = 10
	singleCurrencyPoints      = 10
	riskHighThreshold         = 70
	riskMediumThreshold       = 40
	lowDiversificationCutoff  = 50
	midDiversificationCutoff  = 75
	maxRankedPerformers       = 3
)

// Aggregator folds per-holding metrics into portfolio-level totals, rankings,
// a diversification score and a risk classification.
type Aggregator struct {
	calculator *Calculator
	converter  domain.Converter
	log        zerolog.Logger
}

// NewAggregator creates a new portfolio aggregator
func NewAggregator(calculator *Calculator, converter domain.Converter, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		calculator: calculator,
		converter:  converter,
		log:        log.With().Str("service", "aggregator").Logger(),
	}
}

// PortfolioMetrics computes the aggregate metrics for a set of holdings in
// the target currency. The result is recomputed fresh on every call.
func (a *Aggregator) PortfolioMetrics(holdings []domain.Holding, targetCurrency string) domain.PortfolioMetrics {
	holdingMetrics := a.calculator.HoldingMetrics(holdings, targetCurrency)
	return a.Aggregate(holdings, holdingMetrics, targetCurrency)
}

// Aggregate folds already-computed holding metrics into portfolio totals.
// Total investment is converted directly from the raw holdings, independently
// of the per-holding records, so the two paths can be audited against each
// other.
func (a *Aggregator) Aggregate(holdings []domain.Holding, holdingMetrics []domain.HoldingMetrics, targetCurrency string) domain.PortfolioMetrics {
	if len(holdingMetrics) == 0 {
		return domain.PortfolioMetrics{
			TopPerformers:   []domain.HoldingMetrics{},
			UnderPerformers: []domain.HoldingMetrics{},
			RiskLevel:       domain.RiskLow,
		}
	}

	invested := make([]float64, len(holdings))
	for i, h := range holdings {
		invested[i] = a.converter.Convert(h.PurchaseValue(), h.Currency, targetCurrency).ConvertedAmount
	}
	totalInvestment := floats.Sum(invested)

	currentValues := make([]float64, len(holdingMetrics))
	for i, hm := range holdingMetrics {
		currentValues[i] = hm.CurrentValueTarget
	}
	currentValue := floats.Sum(currentValues)

	totalProfitLoss := currentValue - totalInvestment
	totalProfitLossPct := 0.0
	if totalInvestment > 0 {
		totalProfitLossPct = 100 * totalProfitLoss / totalInvestment
	}

	score := DiversificationScore(holdingMetrics, currentValue)

	return domain.PortfolioMetrics{
		TotalInvestment:           totalInvestment,
		CurrentValue:              currentValue,
		TotalProfitLoss:           totalProfitLoss,
		TotalProfitLossPercentage: totalProfitLossPct,
		TopPerformers:             topPerformers(holdingMetrics),
		UnderPerformers:           underPerformers(holdingMetrics),
		DiversificationScore:      score,
		RiskLevel:                 RiskLevel(holdingMetrics, score),
	}
}

// topPerformers returns up to three holdings with positive returns, best first
func topPerformers(holdingMetrics []domain.HoldingMetrics) []domain.HoldingMetrics {
	ranked := make([]domain.HoldingMetrics, 0, len(holdingMetrics))
	for _, hm := range holdingMetrics {
		if hm.ProfitLossPercentage > 0 {
			ranked = append(ranked, hm)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProfitLossPercentage > ranked[j].ProfitLossPercentage
	})
	if len(ranked) > maxRankedPerformers {
		ranked = ranked[:maxRankedPerformers]
	}
	return ranked
}

// underPerformers returns up to three holdings with negative returns, worst
// first
func underPerformers(holdingMetrics []domain.HoldingMetrics) []domain.HoldingMetrics {
	ranked := make([]domain.HoldingMetrics, 0, len(holdingMetrics))
	for _, hm := range holdingMetrics {
		if hm.ProfitLossPercentage < 0 {
			ranked = append(ranked, hm)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ProfitLossPercentage < ranked[j].ProfitLossPercentage
	})
	if len(ranked) > maxRankedPerformers {
		ranked = ranked[:maxRankedPerformers]
	}
	return ranked
}

// DiversificationScore computes the 0-100 heuristic diversification score:
// capped sub-scores for category, country and currency spread plus a
// concentration component based on the largest single-holding share.
// An empty portfolio scores exactly 0, short-circuiting before any ratio.
func DiversificationScore(holdingMetrics []domain.HoldingMetrics, totalCurrentValue float64) int {
	if len(holdingMetrics) == 0 {
		return 0
	}

	categories := make(map[domain.SecurityCategory]struct{})
	countries := make(map[string]struct{})
	currencies := make(map[string]struct{})
	for _, hm := range holdingMetrics {
		categories[hm.Category] = struct{}{}
		countries[hm.Country] = struct{}{}
		currencies[hm.Currency] = struct{}{}
	}

	categoryScore := math.Min(float64(len(categories)*categoryDiversityPoints), categoryDiversityCap)
	countryScore := math.Min(float64(len(countries)*countryDiversityPoints), countryDiversityCap)
	currencyScore := math.Min(float64(len(currencies)*currencyDiversityPoints), currencyDiversityCap)

	// Concentration contributes 0 when the total is non-positive: the share
	// ratio is guarded, not computed into NaN
	concentrationScore := 0.0
	if totalCurrentValue > 0 {
		shares := make([]float64, len(holdingMetrics))
		for i, hm := range holdingMetrics {
			shares[i] = hm.CurrentValueTarget / totalCurrentValue
		}
		concentrationScore = (1 - floats.Max(shares)) * concentrationPoints
	}

	return int(math.Round(categoryScore + countryScore + currencyScore + concentrationScore))
}

// RiskLevel classifies the portfolio into Low, Medium or High from a weighted
// risk score. High is checked first, so boundary scores resolve to the higher
// bracket.
func RiskLevel(holdingMetrics []domain.HoldingMetrics, diversificationScore int) domain.RiskLevel {
	if len(holdingMetrics) == 0 {
		return domain.RiskLow
	}

	volatile := 0
	countries := make(map[string]struct{})
	currencies := make(map[string]struct{})
	for _, hm := range holdingMetrics {
		if hm.Category == domain.CategoryStock || hm.Category == domain.CategoryCrypto {
			volatile++
		}
		countries[hm.Country] = struct{}{}
		currencies[hm.Currency] = struct{}{}
	}

	riskScore := volatileCategoryPoints * float64(volatile) / float64(len(holdingMetrics))

	switch {
	case diversificationScore < lowDiversificationCutoff:
		riskScore += lowDiversificationPoints
	case diversificationScore < midDiversificationCutoff:
		riskScore += midDiversificationPoints
	}

	switch len(countries) {
	case 1:
		riskScore += singleCountryPoints
	case 2:
		riskScore += dualCountryPoints
	}

	if len(currencies) == 1 {
		riskScore += singleCurrencyPoints
	}

	switch {
	case riskScore >= riskHighThreshold:
		return domain.RiskHigh
	case riskScore >= riskMediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
