package core

import (
	"reflect"
	"testing"
)

func TestFilterEmptyFiltersReturnAll(t *testing.T) {
	txs := sampleTxs()
	got := Filter(txs, "", "", "")
	if !reflect.DeepEqual(got, txs) {
		t.Fatalf("empty filter changed result: got %+v, want %+v", got, txs)
	}
}

func TestFilter(t *testing.T) {
	txs := []Transaction{
		{ID: 3, Type: Expense, Description: "Coffee beans", Category: "food"},
		{ID: 2, Type: Income, Description: "Consulting", Category: "work"},
		{ID: 1, Type: Expense, Description: "Bus ticket", Category: "transport"},
	}
	cases := []struct {
		name     string
		search   string
		category string
		typ      string
		wantIDs  []int64
	}{
		{"search case-insensitive", "COFFEE", "", "", []int64{3}},
		{"search substring", "ing", "", "", []int64{2}},
		{"category exact", "", "food", "", []int64{3}},
		{"category is case-sensitive", "", "Food", "", nil},
		{"type only", "", "", "expense", []int64{3, 1}},
		{"combined", "c", "transport", "expense", []int64{1}},
		{"no match", "zzz", "", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(txs, tc.search, tc.category, tc.typ)
			ids := make([]int64, 0, len(got))
			for _, tx := range got {
				ids = append(ids, tx.ID)
			}
			if len(ids) == 0 {
				ids = nil
			}
			if !reflect.DeepEqual(ids, tc.wantIDs) {
				t.Fatalf("filter ids = %v, want %v", ids, tc.wantIDs)
			}
		})
	}
}
