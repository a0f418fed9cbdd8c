package holdings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/foliotrack/internal/domain"
)

// ImportResult describes the outcome of a CSV import. Rows that fail to
// parse are skipped and reported instead of aborting the whole import.
type ImportResult struct {
	Imported []domain.Holding `json:"imported"`
	Errors   []RowError       `json:"errors"`
}

// RowError is a per-row import failure. Row numbers are 1-based and count
// the header, matching what a user sees in a spreadsheet.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "02/01/2006"}

// ParseCSV reads holdings from CSV data. The first row must be a header;
// column order is free and matched by name. Required columns are name,
// category, country, currency, purchase_price, quantity and
// investment_date. Optional: id, current_price.
func ParseCSV(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}
	for _, required := range []string{"name", "category", "country", "currency", "purchase_price", "quantity", "investment_date"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	result := &ImportResult{Imported: []domain.Holding{}, Errors: []RowError{}}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		h, err := parseRow(record, columns)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, h)
	}

	return result, nil
}

func parseRow(record []string, columns map[string]int) (domain.Holding, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	if name == "" {
		return domain.Holding{}, fmt.Errorf("name is required")
	}
	currency := strings.ToUpper(field("currency"))
	if currency == "" {
		return domain.Holding{}, fmt.Errorf("currency is required")
	}

	purchasePrice, err := strconv.ParseFloat(field("purchase_price"), 64)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("invalid purchase_price %q", field("purchase_price"))
	}
	if purchasePrice < 0 {
		return domain.Holding{}, fmt.Errorf("purchase_price must not be negative")
	}
	quantity, err := strconv.ParseFloat(field("quantity"), 64)
	if err != nil {
		return domain.Holding{}, fmt.Errorf("invalid quantity %q", field("quantity"))
	}
	if quantity <= 0 {
		return domain.Holding{}, fmt.Errorf("quantity must be positive")
	}

	investmentDate, err := parseDate(field("investment_date"))
	if err != nil {
		return domain.Holding{}, err
	}

	h := domain.Holding{
		ID:             field("id"),
		Name:           name,
		Category:       parseCategory(field("category")),
		Country:        field("country"),
		Currency:       currency,
		PurchasePrice:  purchasePrice,
		Quantity:       quantity,
		InvestmentDate: investmentDate,
	}

	if raw := field("current_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Holding{}, fmt.Errorf("invalid current_price %q", raw)
		}
		now := time.Now().UTC()
		h.CurrentPrice = &price
		h.LastUpdated = &now
	}

	return h, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("investment_date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid investment_date %q", raw)
}

func parseCategory(raw string) domain.SecurityCategory {
	switch strings.ToLower(strings.ReplaceAll(raw, "_", " ")) {
	case "stock", "stocks", "equity":
		return domain.CategoryStock
	case "etf", "etfs":
		return domain.CategoryETF
	case "mutual fund", "mutual funds", "fund":
		return domain.CategoryMutualFund
	case "real estate", "reit":
		return domain.CategoryRealEstate
	case "bond", "bonds":
		return domain.CategoryBond
	case "crypto", "cryptocurrency":
		return domain.CategoryCrypto
	default:
		return domain.CategoryOther
	}
}

func normalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(name, " ", "_")
}
