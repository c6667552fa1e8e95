package core

import (
	"math"
	"testing"
)

func TestTransactionInputSigned(t *testing.T) {
	cases := []struct {
		name string
		in   TransactionInput
		want float64
	}{
		{"income stays positive", TransactionInput{Type: Income, Amount: 100}, 100},
		{"expense becomes negative", TransactionInput{Type: Expense, Amount: 42.5}, -42.5},
		{"expense already negative", TransactionInput{Type: Expense, Amount: -42.5}, -42.5},
		{"income negative input", TransactionInput{Type: Income, Amount: -7}, 7},
		{"nan coerced to zero", TransactionInput{Type: Income, Amount: math.NaN()}, 0},
		{"inf coerced to zero", TransactionInput{Type: Expense, Amount: math.Inf(1)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Signed(); got != tc.want {
				t.Fatalf("Signed() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTransactionInputValidate(t *testing.T) {
	valid := TransactionInput{Type: Income, Amount: 1, Date: "2024-01-15"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	bad := valid
	bad.Type = "transfer"
	if err := bad.Validate(); err != ErrInvalidType {
		t.Fatalf("bad type error = %v, want ErrInvalidType", err)
	}

	bad = valid
	bad.Date = "15/01/2024"
	if err := bad.Validate(); err != ErrInvalidDate {
		t.Fatalf("bad date error = %v, want ErrInvalidDate", err)
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	if err := (SavingsGoal{Target: 500, Period: "monthly"}).Validate(); err != nil {
		t.Fatalf("valid goal rejected: %v", err)
	}
	if err := (SavingsGoal{Target: 0}).Validate(); err != nil {
		t.Fatalf("zero goal should be valid (means unset): %v", err)
	}
	for _, target := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := (SavingsGoal{Target: target}).Validate(); err != ErrInvalidGoal {
			t.Fatalf("target %v error = %v, want ErrInvalidGoal", target, err)
		}
	}
}

func TestTransactionMonth(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-15", "2024-01"},
		{"2024-01", "2024-01"},
		{"bad", "bad"},
		{"", ""},
	}
	for _, tc := range cases {
		tx := Transaction{Date: tc.date}
		if got := tx.Month(); got != tc.want {
			t.Fatalf("Month(%q) = %q, want %q", tc.date, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.34", 12.34},
		{"12,34", 12.34},
		{" 100 ", 100},
		{"-5", -5},
		{"abc", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
