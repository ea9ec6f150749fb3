package fintrack

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/cache"
	"github.com/shopspring/decimal"
)

// BudgetStatus is the consumption of one category's budget.
// Percentage is capped at 100; Remaining goes negative when over budget.
type BudgetStatus struct {
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Summary holds every value derived from transactions, categories and budgets
type Summary struct {
	TotalIncome            float64                  `json:"totalIncome"`
	TotalExpenses          float64                  `json:"totalExpenses"`
	Balance                float64                  `json:"balance"`
	ExpensesByCategory     map[string]float64       `json:"expensesByCategory"`
	IncomeByCategory       map[string]float64       `json:"incomeByCategory"`
	TransactionsByCategory map[string][]Transaction `json:"transactionsByCategory"`
	BudgetStatus           map[string]BudgetStatus  `json:"budgetStatus"`
	SuggestedBudgets       map[string]float64       `json:"suggestedBudgets"`
}

// Clone returns a deep copy of the summary
func (s *Summary) Clone() *Summary {
	if s == nil {
		return nil
	}
	out := *s
	out.ExpensesByCategory = cloneMap(s.ExpensesByCategory)
	out.IncomeByCategory = cloneMap(s.IncomeByCategory)
	out.BudgetStatus = cloneMap(s.BudgetStatus)
	out.SuggestedBudgets = cloneMap(s.SuggestedBudgets)
	out.TransactionsByCategory = make(map[string][]Transaction, len(s.TransactionsByCategory))
	for k, v := range s.TransactionsByCategory {
		out.TransactionsByCategory[k] = cloneSlice(v)
	}
	return &out
}

var (
	hundred = decimal.NewFromInt(100)

	essentialCategories = map[string]bool{
		"rent":           true,
		"utilities":      true,
		"food":           true,
		"healthcare":     true,
		"transportation": true,
	}
	discretionaryCategories = map[string]bool{
		"entertainment": true,
		"shopping":      true,
	}

	essentialHigh     = decimal.RequireFromString("1.1")
	essentialLow      = decimal.RequireFromString("0.5")
	discretionaryHigh = decimal.RequireFromString("0.9")
	discretionaryLow  = decimal.RequireFromString("0.3")
)

// Calculate derives the summary from the canonical records. It is pure:
// equal inputs always give equal output.
func Calculate(transactions []Transaction, categories []Category, budgets map[string]float64) *Summary {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case Income:
			totalIncome = totalIncome.Add(decimal.NewFromFloat(t.Amount))
		case Expense:
			totalExpenses = totalExpenses.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	byCategory := make(map[string][]Transaction, len(categories))
	for _, t := range transactions {
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], t)
	}

	s := &Summary{
		TotalIncome:            totalIncome.InexactFloat64(),
		TotalExpenses:          totalExpenses.InexactFloat64(),
		Balance:                totalIncome.Sub(totalExpenses).InexactFloat64(),
		ExpensesByCategory:     make(map[string]float64),
		IncomeByCategory:       make(map[string]float64),
		TransactionsByCategory: make(map[string][]Transaction, len(categories)),
		BudgetStatus:           make(map[string]BudgetStatus, len(budgets)),
		SuggestedBudgets:       make(map[string]float64),
	}

	// Sums follow the category's declared type, not the transaction's
	expenseSums := make(map[string]decimal.Decimal)
	for _, c := range categories {
		txns := byCategory[c.ID]
		if txns == nil {
			txns = []Transaction{}
		}
		s.TransactionsByCategory[c.ID] = txns

		sum := decimal.Zero
		for _, t := range txns {
			sum = sum.Add(decimal.NewFromFloat(t.Amount))
		}
		switch c.Type {
		case Expense:
			expenseSums[c.ID] = sum
			s.ExpensesByCategory[c.ID] = sum.InexactFloat64()
		case Income:
			s.IncomeByCategory[c.ID] = sum.InexactFloat64()
		}
	}

	for id, amount := range budgets {
		budget := decimal.NewFromFloat(amount)
		spent, ok := expenseSums[id]
		if !ok {
			spent = decimal.Zero
		}
		s.BudgetStatus[id] = budgetStatus(budget, spent)
	}

	for _, c := range categories {
		if c.Type != Expense {
			continue
		}
		s.SuggestedBudgets[c.ID] = suggestedBudget(c.ID, expenseSums[c.ID], totalIncome, totalExpenses)
	}

	return s
}

func budgetStatus(budget, spent decimal.Decimal) BudgetStatus {
	percentage := decimal.Zero
	if budget.IsPositive() {
		percentage = decimal.Min(spent.Div(budget).Mul(hundred), hundred)
	}
	return BudgetStatus{
		Budget:     budget.InexactFloat64(),
		Spent:      spent.InexactFloat64(),
		Remaining:  budget.Sub(spent).InexactFloat64(),
		Percentage: percentage.InexactFloat64(),
	}
}

// suggestedBudget keeps the min-of-two scaling as recorded in the product
// rules: the lower multiplier always wins for a positive share.
func suggestedBudget(id string, spent, totalIncome, totalExpenses decimal.Decimal) float64 {
	if totalExpenses.IsZero() || totalIncome.IsZero() {
		return 0
	}

	share := spent.Div(totalExpenses)
	adjusted := share
	switch {
	case essentialCategories[id]:
		adjusted = decimal.Min(share.Mul(essentialHigh), share.Mul(essentialLow))
	case discretionaryCategories[id]:
		adjusted = decimal.Min(share.Mul(discretionaryHigh), share.Mul(discretionaryLow))
	}

	return totalIncome.Mul(adjusted).Round(0).InexactFloat64()
}

// Fingerprint returns a content hash of the calculator inputs. Map keys are
// serialized in sorted order, so equal inputs always hash equally.
func Fingerprint(transactions []Transaction, categories []Category, budgets map[string]float64) string {
	data, err := json.Marshal(struct {
		Transactions []Transaction      `json:"t"`
		Categories   []Category         `json:"c"`
		Budgets      map[string]float64 `json:"b"`
	}{transactions, categories, budgets})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// calculator memoises Calculate by fingerprint
type calculator struct {
	cache  *cache.LRUCache[*Summary]
	logger Logger
}

func newCalculator(size int, ttl time.Duration, logger Logger) *calculator {
	return &calculator{
		cache:  cache.NewLRUCache[*Summary](size, ttl),
		logger: logger,
	}
}

// compute returns a private copy of the summary for state
func (c *calculator) compute(state FinanceState) *Summary {
	key := Fingerprint(state.Transactions, state.Categories, state.Budgets)
	if key != "" {
		if cached, ok := c.cache.Get(key); ok {
			return cached.Clone()
		}
	}

	s := Calculate(state.Transactions, state.Categories, state.Budgets)
	if key != "" {
		c.cache.Set(key, s.Clone())
	}

	if c.logger != nil {
		c.logger.Debug("Derived state recomputed", "fingerprint", shortKey(key), "transactions", len(state.Transactions))
	}
	return s
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
