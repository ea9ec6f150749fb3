package fintrack

import (
	"encoding/json"
	"fmt"

	"github.com/eshaffer321/fintrack-go/internal/seed"
)

const (
	// StorageKey is the slot key the finance document is stored under
	StorageKey = "financeData"

	// DefaultCurrency is the display currency of a fresh state
	DefaultCurrency = "USD"

	// UncategorizedID is the placeholder ID used for unresolvable category references
	UncategorizedID = "uncategorized"

	// UncategorizedName is shown for unresolvable category references
	UncategorizedName = "Uncategorized"

	// UncategorizedColor is the display color for unresolvable category references
	UncategorizedColor = "#6B7280"
)

// Uncategorized is the read-time fallback for orphaned category references
var Uncategorized = Category{
	ID:    UncategorizedID,
	Name:  UncategorizedName,
	Type:  Expense,
	Color: UncategorizedColor,
}

// DefaultState returns a fresh copy of the seed state: the built-in
// categories, no records and USD as the currency.
func DefaultState() FinanceState {
	var state FinanceState
	if err := json.Unmarshal(seed.MustLoad(seed.DefaultDocument), &state); err != nil {
		panic(fmt.Sprintf("embedded seed document is invalid: %v", err))
	}
	return state
}
