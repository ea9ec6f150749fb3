package fintrack

import (
	"context"
	"time"
)

// TransactionService handles all transaction-related operations
type TransactionService interface {
	// List returns every transaction, newest insert first
	List(ctx context.Context) ([]Transaction, error)

	// Get retrieves a single transaction
	Get(ctx context.Context, transactionID string) (*Transaction, error)

	// Create validates and prepends a new transaction
	Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error)

	// Update updates an existing transaction
	Update(ctx context.Context, transactionID string, params *UpdateTransactionParams) (*Transaction, error)

	// Delete deletes a transaction. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, transactionID string) error

	// Recent returns the n latest transactions by date
	Recent(ctx context.Context, n int) ([]Transaction, error)

	// Monthly returns transactions of the given type dated in the current month
	Monthly(ctx context.Context, typ TransactionType) ([]Transaction, error)

	// Between returns transactions dated within [start, end]
	Between(ctx context.Context, start, end time.Time) ([]Transaction, error)

	// Query returns a transaction query builder
	Query() TransactionQueryBuilder
}

// TransactionQueryBuilder builds transaction queries
type TransactionQueryBuilder interface {
	// Filter methods
	Between(start, end time.Time) TransactionQueryBuilder
	WithType(typ TransactionType) TransactionQueryBuilder
	WithCategories(categoryIDs ...string) TransactionQueryBuilder
	WithMinAmount(amount float64) TransactionQueryBuilder
	WithMaxAmount(amount float64) TransactionQueryBuilder
	Search(query string) TransactionQueryBuilder
	OrderBy(field SortField, dir SortDirection) TransactionQueryBuilder
	Limit(limit int) TransactionQueryBuilder
	Offset(offset int) TransactionQueryBuilder

	// Execute runs the query
	Execute(ctx context.Context) (*TransactionList, error)

	// Stream returns every match as a channel, ignoring Limit and Offset paging
	Stream(ctx context.Context) (<-chan Transaction, <-chan error)

	// GroupByDay returns every match grouped by calendar day, latest day first
	GroupByDay(ctx context.Context) ([]DayGroup, error)
}

// CategoryService handles categories
type CategoryService interface {
	// List retrieves all categories
	List(ctx context.Context) ([]Category, error)

	// ByType retrieves categories of one type
	ByType(ctx context.Context, typ TransactionType) ([]Category, error)

	// Get retrieves a single category
	Get(ctx context.Context, categoryID string) (*Category, error)

	// Resolve returns the category, or the Uncategorized placeholder when it does not exist
	Resolve(ctx context.Context, categoryID string) (Category, error)

	// Create creates a new category
	Create(ctx context.Context, params *CreateCategoryParams) (*Category, error)

	// Update renames or recolors a category
	Update(ctx context.Context, categoryID string, params *UpdateCategoryParams) (*Category, error)

	// Delete deletes a category. Transactions keep their reference.
	Delete(ctx context.Context, categoryID string) error
}

// BudgetService handles monthly category budgets
type BudgetService interface {
	// List returns the budget mapping
	List(ctx context.Context) (map[string]float64, error)

	// Set creates or replaces a category budget
	Set(ctx context.Context, categoryID string, amount float64) error

	// Delete removes a category budget
	Delete(ctx context.Context, categoryID string) error

	// Status returns consumption for every budgeted category
	Status(ctx context.Context) (map[string]BudgetStatus, error)

	// Suggested returns a suggested budget for every expense category
	Suggested(ctx context.Context) (map[string]float64, error)

	// Progress returns budgeted expense categories, most consumed first. limit <= 0 means all.
	Progress(ctx context.Context, limit int) ([]BudgetProgress, error)

	// Unbudgeted returns expense categories without a budget
	Unbudgeted(ctx context.Context) ([]Category, error)
}

// GoalService handles savings goals
type GoalService interface {
	// List returns goals in creation order
	List(ctx context.Context) ([]SavingsGoal, error)

	// Get retrieves a single goal
	Get(ctx context.Context, goalID string) (*SavingsGoal, error)

	// Create creates a goal. CurrentAmount defaults to 0.
	Create(ctx context.Context, params *CreateGoalParams) (*SavingsGoal, error)

	// Update updates an existing goal
	Update(ctx context.Context, goalID string, params *UpdateGoalParams) (*SavingsGoal, error)

	// Delete deletes a goal
	Delete(ctx context.Context, goalID string) error

	// Contribute adds amount to a goal's current amount
	Contribute(ctx context.Context, goalID string, amount float64) (*SavingsGoal, error)

	// Partition splits goals into active and completed
	Partition(ctx context.Context) (*GoalPartition, error)

	// TopActive returns up to n active goals, closest to completion first
	TopActive(ctx context.Context, n int) ([]SavingsGoal, error)

	// Progress describes a goal relative to now
	Progress(goal SavingsGoal, now time.Time) GoalProgress
}

// SummaryService exposes derived values
type SummaryService interface {
	// Get returns the full derived summary
	Get(ctx context.Context) (*Summary, error)

	// Totals returns total income, total expenses and balance
	Totals(ctx context.Context) (income, expenses, balance float64, err error)
}

// SettingsService handles currency and exchange rates
type SettingsService interface {
	// Currency returns the display currency
	Currency(ctx context.Context) (string, error)

	// SetCurrency replaces the display currency
	SetCurrency(ctx context.Context, code string) error

	// ExchangeRates returns the stored USD-based rates
	ExchangeRates(ctx context.Context) (map[string]float64, error)

	// SetExchangeRates replaces all stored rates
	SetExchangeRates(ctx context.Context, rates map[string]float64) error

	// RefreshRates fetches the latest rates and stores them
	RefreshRates(ctx context.Context) (map[string]float64, error)

	// RatesStatus reports the last refresh outcome
	RatesStatus() RatesStatus

	// Convert multiplies amount by the stored rate for to
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// ExportService produces backups and reports
type ExportService interface {
	// CSV renders transactions as CSV
	CSV(ctx context.Context) ([]byte, error)

	// JSON returns the persisted document
	JSON(ctx context.Context) ([]byte, error)

	// BackupFileName returns the suggested file name for a JSON backup
	BackupFileName() string
}
