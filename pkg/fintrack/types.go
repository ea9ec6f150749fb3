package fintrack

import (
	"time"

	internalTypes "github.com/eshaffer321/fintrack-go/internal/types"
)

// TransactionType is the direction of money flow. Categories carry one too.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is a known type
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction is a single income or expense record
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId"`
	Date        Date            `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Category groups transactions. Type is fixed at creation.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// SavingsGoal tracks progress towards a target amount
type SavingsGoal struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	TargetDate    *Date     `json:"targetDate,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Completed reports whether the goal has reached its target
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount >= g.TargetAmount
}

func (g SavingsGoal) clone() SavingsGoal {
	if g.TargetDate != nil {
		d := *g.TargetDate
		g.TargetDate = &d
	}
	return g
}

// FinanceState is the canonical record store. It is persisted verbatim.
type FinanceState struct {
	Transactions  []Transaction      `json:"transactions"`
	Categories    []Category         `json:"categories"`
	Budgets       map[string]float64 `json:"budgets"`
	SavingsGoals  []SavingsGoal      `json:"savingsGoals"`
	Currency      string             `json:"currency"`
	ExchangeRates map[string]float64 `json:"exchangeRates"`
}

// Clone returns a deep copy of the state
func (s FinanceState) Clone() FinanceState {
	out := FinanceState{
		Transactions:  cloneSlice(s.Transactions),
		Categories:    cloneSlice(s.Categories),
		Budgets:       cloneMap(s.Budgets),
		Currency:      s.Currency,
		ExchangeRates: cloneMap(s.ExchangeRates),
	}
	if s.SavingsGoals != nil {
		out.SavingsGoals = make([]SavingsGoal, len(s.SavingsGoals))
		for i, g := range s.SavingsGoals {
			out.SavingsGoals[i] = g.clone()
		}
	}
	return out
}

// Currency is a selectable display currency
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedCurrencies lists the currencies offered for display
var SupportedCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar"},
	{Code: "EUR", Name: "Euro"},
	{Code: "GBP", Name: "British Pound"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "CAD", Name: "Canadian Dollar"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "CNY", Name: "Chinese Yuan"},
	{Code: "INR", Name: "Indian Rupee"},
}

// TransactionList is a page of query results
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	TotalCount   int           `json:"totalCount"`
	HasMore      bool          `json:"hasMore"`
	NextOffset   int           `json:"nextOffset"`
}

// DayGroup holds the transactions recorded on one calendar day
type DayGroup struct {
	Date         Date          `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// CreateTransactionParams for creating transactions
type CreateTransactionParams struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	CategoryID  string          `json:"categoryId"`
	Date        Date            `json:"date"`
}

// UpdateTransactionParams for updating transactions. Nil fields are left unchanged.
type UpdateTransactionParams struct {
	Description *string          `json:"description,omitempty"`
	Amount      *float64         `json:"amount,omitempty"`
	Type        *TransactionType `json:"type,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Date        *Date            `json:"date,omitempty"`
}

// CreateCategoryParams for creating categories
type CreateCategoryParams struct {
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// UpdateCategoryParams for updating categories. The type cannot change.
type UpdateCategoryParams struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// CreateGoalParams for creating savings goals
type CreateGoalParams struct {
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"targetAmount"`
	CurrentAmount *float64 `json:"currentAmount,omitempty"`
	TargetDate    *Date    `json:"targetDate,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// UpdateGoalParams for updating savings goals
type UpdateGoalParams struct {
	Name          *string  `json:"name,omitempty"`
	TargetAmount  *float64 `json:"targetAmount,omitempty"`
	CurrentAmount *float64 `json:"currentAmount,omitempty"`
	TargetDate    *Date    `json:"targetDate,omitempty"`
	ClearDate     bool     `json:"clearDate,omitempty"`
	Description   *string  `json:"description,omitempty"`
}

// BudgetLevel buckets budget consumption for display
type BudgetLevel string

const (
	BudgetGood    BudgetLevel = "good"
	BudgetCaution BudgetLevel = "caution"
	BudgetWarning BudgetLevel = "warning"
	BudgetDanger  BudgetLevel = "danger"
)

// LevelFor maps a consumption percentage to a display level
func LevelFor(percentage float64) BudgetLevel {
	switch {
	case percentage >= 90:
		return BudgetDanger
	case percentage >= 75:
		return BudgetWarning
	case percentage >= 50:
		return BudgetCaution
	default:
		return BudgetGood
	}
}

// BudgetProgress joins a budgeted category with its status
type BudgetProgress struct {
	Category Category     `json:"category"`
	Status   BudgetStatus `json:"status"`
	Level    BudgetLevel  `json:"level"`
	Over     bool         `json:"over"`
}

// GoalProgress describes how far a goal is from its target
type GoalProgress struct {
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Completed bool    `json:"completed"`

	// DaysLeft is nil when the goal has no target date. Zero or negative
	// means due or past due.
	DaysLeft *int `json:"daysLeft,omitempty"`
}

// GoalPartition splits goals by completion
type GoalPartition struct {
	Active    []SavingsGoal `json:"active"`
	Completed []SavingsGoal `json:"completed"`
}

// RatesStatus reports the outcome of the last exchange-rate refresh
type RatesStatus struct {
	LastAttempt time.Time `json:"lastAttempt"`
	LastSuccess time.Time `json:"lastSuccess"`
	LastError   string    `json:"lastError,omitempty"`
	InFlight    bool      `json:"inFlight"`
}

// Snapshot is delivered to subscribers after every commit
type Snapshot struct {
	Version uint64       `json:"version"`
	Intent  string       `json:"intent"`
	State   FinanceState `json:"state"`
	Summary *Summary     `json:"summary"`
}

// RetryConfig configures retry behavior for the rates fetch
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for rate requests and state commits
type Hooks = internalTypes.Hooks

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
