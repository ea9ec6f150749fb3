package fintrack

// Intent is a request to change state. The set of variants is closed:
// only types in this package implement it.
type Intent interface {
	// Name identifies the intent in logs, hooks and snapshots
	Name() string
	sealed()
}

type (
	// AddTransaction prepends a transaction
	AddTransaction struct{ Transaction Transaction }
	// UpdateTransaction replaces the transaction with the same ID
	UpdateTransaction struct{ Transaction Transaction }
	// DeleteTransaction removes a transaction by ID
	DeleteTransaction struct{ ID string }

	// AddCategory appends a category
	AddCategory struct{ Category Category }
	// UpdateCategory replaces the category with the same ID, keeping its type
	UpdateCategory struct{ Category Category }
	// DeleteCategory removes a category by ID without touching transactions
	DeleteCategory struct{ ID string }

	// UpdateBudget sets the monthly limit for a category
	UpdateBudget struct {
		CategoryID string
		Amount     float64
	}
	// DeleteBudget removes a category's limit
	DeleteBudget struct{ CategoryID string }

	// AddSavingsGoal appends a goal
	AddSavingsGoal struct{ Goal SavingsGoal }
	// UpdateSavingsGoal replaces the goal with the same ID
	UpdateSavingsGoal struct{ Goal SavingsGoal }
	// DeleteSavingsGoal removes a goal by ID
	DeleteSavingsGoal struct{ ID string }

	// SetCurrency replaces the display currency
	SetCurrency struct{ Currency string }
	// SetExchangeRates replaces all exchange rates
	SetExchangeRates struct{ Rates map[string]float64 }

	// Reset replaces the whole state with the seed default
	Reset struct{}
)

func (AddTransaction) Name() string    { return "AddTransaction" }
func (UpdateTransaction) Name() string { return "UpdateTransaction" }
func (DeleteTransaction) Name() string { return "DeleteTransaction" }
func (AddCategory) Name() string       { return "AddCategory" }
func (UpdateCategory) Name() string    { return "UpdateCategory" }
func (DeleteCategory) Name() string    { return "DeleteCategory" }
func (UpdateBudget) Name() string      { return "UpdateBudget" }
func (DeleteBudget) Name() string      { return "DeleteBudget" }
func (AddSavingsGoal) Name() string    { return "AddSavingsGoal" }
func (UpdateSavingsGoal) Name() string { return "UpdateSavingsGoal" }
func (DeleteSavingsGoal) Name() string { return "DeleteSavingsGoal" }
func (SetCurrency) Name() string       { return "SetCurrency" }
func (SetExchangeRates) Name() string  { return "SetExchangeRates" }
func (Reset) Name() string             { return "Reset" }

func (AddTransaction) sealed()    {}
func (UpdateTransaction) sealed() {}
func (DeleteTransaction) sealed() {}
func (AddCategory) sealed()       {}
func (UpdateCategory) sealed()    {}
func (DeleteCategory) sealed()    {}
func (UpdateBudget) sealed()      {}
func (DeleteBudget) sealed()      {}
func (AddSavingsGoal) sealed()    {}
func (UpdateSavingsGoal) sealed() {}
func (DeleteSavingsGoal) sealed() {}
func (SetCurrency) sealed()       {}
func (SetExchangeRates) sealed()  {}
func (Reset) sealed()             {}

func intentName(i Intent) string {
	if i == nil {
		return "nil"
	}
	return i.Name()
}
