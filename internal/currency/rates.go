// Package currency loads exchange rates and converts amounts between
// currency codes for display. All stored amounts are in the base currency;
// conversion never touches stored state.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// Base is the currency all rates are expressed against.
const Base = "USD"

// DefaultRatesURL is the live rate source queried at startup.
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

// RateTable maps a currency code to its rate relative to Base.
// Invariant: rates[Base] == 1.
type RateTable map[string]float64

// FallbackTable returns the static table used when the live source is
// unavailable. Replaced wholesale, never merged.
func FallbackTable() RateTable {
	return RateTable{
		"USD": 1,
		"EUR": 0.85,
		"GBP": 0.73,
		"JPY": 110.0,
		"RWF": 1100,
	}
}

// Loader fetches the rate table once at startup.
type Loader struct {
	url    string
	client *http.Client
}

func NewLoader(url string, timeout time.Duration) *Loader {
	if url == "" {
		url = DefaultRatesURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Load fetches the live rate table. Any failure — network, status, parse, or
// a response without rates — falls back to the static table. Load never
// returns an error; the failure is logged and absorbed.
func (l *Loader) Load(ctx context.Context) RateTable {
	table, err := l.fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Rate fetch failed, using fallback table",
			"error", err, "url", l.url)
		return FallbackTable()
	}
	slog.InfoContext(ctx, "Loaded live exchange rates", "currencies", len(table))
	return table
}

func (l *Loader) fetch(ctx context.Context) (RateTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("rate source returned status " + resp.Status)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Rates) == 0 {
		return nil, errors.New("rate source response has no rates")
	}

	table := RateTable(payload.Rates)
	if table[Base] == 0 {
		table[Base] = 1
	}
	return table, nil
}

// Convert converts an amount between two currency codes via the base
// currency. Non-finite amounts convert to 0. When the codes match, or either
// code is missing from the table, the amount comes back unchanged: no
// conversion is safer than a wrong one.
func (t RateTable) Convert(amount float64, from, to string) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	if from == to {
		return amount
	}
	if t[from] == 0 || t[to] == 0 {
		return amount
	}

	usd := amount
	if from != Base {
		usd = amount / t[from]
	}
	if to == Base {
		return usd
	}
	return usd * t[to]
}
