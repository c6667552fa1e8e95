package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// BaseCurrency is the currency every transaction is stored in. Conversion to
// the selected display currency happens at presentation time only.
const BaseCurrency = "USD"

// DefaultGoalPeriod is the savings-goal timeframe used when none is set.
const DefaultGoalPeriod = "one-time"

type (
	TransactionType string

	// Transaction is the atomic ledger record. Amount is pre-signed:
	// positive for income, negative for expense, so a plain sum over a
	// snapshot yields the net balance.
	Transaction struct {
		ID          int64           `json:"id"`
		Type        TransactionType `json:"type"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
		Currency    string          `json:"currency"`
	}

	// SavingsGoal is a singleton value owned by the store. Target 0 means
	// no goal is set.
	SavingsGoal struct {
		Target float64 `json:"target"`
		Period string  `json:"period"`
	}

	// TransactionInput carries raw form values for a new transaction.
	// Amount arrives unsigned; Signed() applies the sign per Type.
	TransactionInput struct {
		Type        TransactionType
		Description string
		Amount      float64
		Category    string
		Date        string
	}
)

var (
	ErrInvalidType = errors.New("invalid transaction type")
	ErrInvalidDate = errors.New("invalid date")
	ErrInvalidGoal = errors.New("invalid savings goal amount")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Signed returns the stored amount for the input: the absolute value with the
// sign encoding the type. Non-finite amounts are coerced to zero rather than
// rejected; the record is still created.
func (in TransactionInput) Signed() float64 {
	a := in.Amount
	if math.IsNaN(a) || math.IsInf(a, 0) {
		a = 0
	}
	a = math.Abs(a)
	if in.Type == Expense {
		return -a
	}
	return a
}

// Validate checks the fields rejected at the input boundary. Description and
// category may be empty.
func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if math.IsNaN(g.Target) || math.IsInf(g.Target, 0) || g.Target < 0 {
		return ErrInvalidGoal
	}
	return nil
}

// Month returns the year-month grouping key for the transaction: the first
// seven characters of the date string. With ISO dates this is "YYYY-MM";
// shorter or malformed dates group under whatever slice they yield.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// ParseAmount parses a decimal form value, accepting a comma separator.
// It returns 0 for unparseable input, mirroring the coerce-to-zero policy
// applied when recording transactions.
func ParseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
