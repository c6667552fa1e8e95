package core

import "strings"

// Filter keeps transactions whose description contains the search term
// (case-insensitive substring, empty term matches everything) and whose
// category and type match the given filters exactly when those are non-empty.
// Input order is preserved.
func Filter(txs []Transaction, search, category, typ string) []Transaction {
	term := strings.ToLower(search)
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if term != "" && !strings.Contains(strings.ToLower(t.Description), term) {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		if typ != "" && string(t.Type) != typ {
			continue
		}
		out = append(out, t)
	}
	return out
}
