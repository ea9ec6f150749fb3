package fintrack

import (
	"context"
	"sort"
)

// DefaultProgressCount is how many categories a dashboard shows
const DefaultProgressCount = 4

// budgetService implements the BudgetService interface
type budgetService struct {
	client *Client
}

// List returns the budget mapping
func (s *budgetService) List(ctx context.Context) (map[string]float64, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	budgets := cloneMap(state.Budgets)
	if budgets == nil {
		budgets = map[string]float64{}
	}
	return budgets, nil
}

// Set creates or replaces a category budget
func (s *budgetService) Set(ctx context.Context, categoryID string, amount float64) error {
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		if err := validateBudget(categoryID, amount); err != nil {
			return nil, err
		}
		return UpdateBudget{CategoryID: categoryID, Amount: amount}, nil
	})
	return err
}

// Delete removes a category budget
func (s *budgetService) Delete(ctx context.Context, categoryID string) error {
	_, err := s.client.dispatch(ctx, DeleteBudget{CategoryID: categoryID})
	return err
}

// Status returns consumption for every budgeted category
func (s *budgetService) Status(ctx context.Context) (map[string]BudgetStatus, error) {
	summary, err := s.client.summary()
	if err != nil {
		return nil, err
	}
	return summary.BudgetStatus, nil
}

// Suggested returns a suggested budget for every expense category
func (s *budgetService) Suggested(ctx context.Context) (map[string]float64, error) {
	summary, err := s.client.summary()
	if err != nil {
		return nil, err
	}
	return summary.SuggestedBudgets, nil
}

// Progress returns budgeted expense categories ordered by consumption
func (s *budgetService) Progress(ctx context.Context, limit int) ([]BudgetProgress, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	summary := s.client.calc.compute(state)

	var out []BudgetProgress
	for _, c := range state.Categories {
		if c.Type != Expense {
			continue
		}
		status, ok := summary.BudgetStatus[c.ID]
		if !ok {
			continue
		}
		out = append(out, BudgetProgress{
			Category: c,
			Status:   status,
			Level:    LevelFor(status.Percentage),
			Over:     status.Remaining < 0,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.Percentage > out[j].Status.Percentage
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Unbudgeted returns expense categories without a budget
func (s *budgetService) Unbudgeted(ctx context.Context) ([]Category, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	var out []Category
	for _, c := range state.Categories {
		if _, ok := state.Budgets[c.ID]; c.Type == Expense && !ok {
			out = append(out, c)
		}
	}
	return out, nil
}
