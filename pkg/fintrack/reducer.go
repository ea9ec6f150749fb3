package fintrack

// Reduce returns the state that results from applying intent to state.
// state is never modified: changed collections are rebuilt and untouched
// ones are shared. Unknown intents, and deletes or updates of absent
// records, return state as is.
func Reduce(state FinanceState, intent Intent) FinanceState {
	switch in := intent.(type) {
	case AddTransaction:
		next := make([]Transaction, 0, len(state.Transactions)+1)
		next = append(next, in.Transaction)
		state.Transactions = append(next, state.Transactions...)

	case UpdateTransaction:
		if i := indexOf(state.Transactions, in.Transaction.ID, txnKey); i >= 0 {
			next := cloneSlice(state.Transactions)
			next[i] = in.Transaction
			state.Transactions = next
		}

	case DeleteTransaction:
		state.Transactions = without(state.Transactions, in.ID, txnKey)

	case AddCategory:
		state.Categories = appendCopy(state.Categories, in.Category)

	case UpdateCategory:
		if i := indexOf(state.Categories, in.Category.ID, categoryKey); i >= 0 {
			next := cloneSlice(state.Categories)
			updated := in.Category
			updated.Type = next[i].Type
			next[i] = updated
			state.Categories = next
		}

	case DeleteCategory:
		state.Categories = without(state.Categories, in.ID, categoryKey)

	case UpdateBudget:
		next := make(map[string]float64, len(state.Budgets)+1)
		for k, v := range state.Budgets {
			next[k] = v
		}
		next[in.CategoryID] = in.Amount
		state.Budgets = next

	case DeleteBudget:
		if _, ok := state.Budgets[in.CategoryID]; ok {
			next := make(map[string]float64, len(state.Budgets))
			for k, v := range state.Budgets {
				if k != in.CategoryID {
					next[k] = v
				}
			}
			state.Budgets = next
		}

	case AddSavingsGoal:
		state.SavingsGoals = appendCopy(state.SavingsGoals, in.Goal.clone())

	case UpdateSavingsGoal:
		if i := indexOf(state.SavingsGoals, in.Goal.ID, goalKey); i >= 0 {
			next := cloneSlice(state.SavingsGoals)
			next[i] = in.Goal.clone()
			state.SavingsGoals = next
		}

	case DeleteSavingsGoal:
		state.SavingsGoals = without(state.SavingsGoals, in.ID, goalKey)

	case SetCurrency:
		state.Currency = in.Currency

	case SetExchangeRates:
		state.ExchangeRates = cloneMap(in.Rates)
		if state.ExchangeRates == nil {
			state.ExchangeRates = map[string]float64{}
		}

	case Reset:
		return DefaultState()
	}

	return state
}

func txnKey(t Transaction) string   { return t.ID }
func categoryKey(c Category) string { return c.ID }
func goalKey(g SavingsGoal) string  { return g.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

// without returns items minus every entry with id, or items itself when none match
func without[T any](items []T, id string, key func(T) string) []T {
	if indexOf(items, id, key) < 0 {
		return items
	}
	next := make([]T, 0, len(items)-1)
	for _, item := range items {
		if key(item) != id {
			next = append(next, item)
		}
	}
	return next
}

func appendCopy[T any](items []T, item T) []T {
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	return append(next, item)
}
