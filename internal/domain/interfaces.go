package domain

// Converter converts amounts between currencies. Implementations never fail:
// an unsupported pair degrades to a 1:1 conversion, so callers must check the
// returned currency codes when correctness matters.
type Converter interface {
	Convert(amount float64, fromCurrency, toCurrency string) Conversion
	GetRate(fromCurrency, toCurrency string) float64
}

// PriceSource supplies current prices for securities. The boolean result
// reports whether a usable price was found; absence is not an error.
type PriceSource interface {
	Price(category SecurityCategory, symbol string) (float64, bool)
}

// RateSource supplies a full replacement rate table, expressed as units of
// currency per one unit of the base currency.
type RateSource interface {
	FetchTable(baseCurrency string) (map[string]float64, error)
}
