package fintrack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_SetAndDelete(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Budgets.Set(ctx, "food", 300))
	require.NoError(t, c.Budgets.Set(ctx, "food", 350))
	require.NoError(t, c.Budgets.Set(ctx, "rent", 1000))

	budgets, err := c.Budgets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"food": 350, "rent": 1000}, budgets)

	budgets["food"] = 1
	again, err := c.Budgets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 350.0, again["food"])

	require.NoError(t, c.Budgets.Delete(ctx, "food"))
	budgets, err = c.Budgets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"rent": 1000}, budgets)
}

func TestBudgetService_SetValidation(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		categoryID string
		amount     float64
		field      string
	}{
		{name: "zero amount", categoryID: "food", amount: 0, field: "amount"},
		{name: "negative amount", categoryID: "food", amount: -20, field: "amount"},
		{name: "missing category", categoryID: " ", amount: 20, field: "categoryId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Budgets.Set(ctx, tt.categoryID, tt.amount)

			var ve *ValidationErrors
			require.ErrorAs(t, err, &ve)
			assert.NotNil(t, ve.Field(tt.field))
		})
	}
	assert.Equal(t, uint64(0), c.Version())
}

func TestBudgetService_Progress(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Budgets.Set(ctx, "rent", 1000))
	require.NoError(t, c.Budgets.Set(ctx, "food", 200))
	require.NoError(t, c.Budgets.Set(ctx, "other", 100))
	require.NoError(t, c.Budgets.Set(ctx, "shopping", 100))
	require.NoError(t, c.Budgets.Set(ctx, "salary", 5000))

	addTransaction(t, c, "Rent", 1200, Expense, "rent", "2024-01-02")
	addTransaction(t, c, "Groceries", 150, Expense, "food", "2024-01-03")
	addTransaction(t, c, "Stamps", 10, Expense, "other", "2024-01-04")
	addTransaction(t, c, "Shoes", 55, Expense, "shopping", "2024-01-05")

	progress, err := c.Budgets.Progress(ctx, 0)
	require.NoError(t, err)
	require.Len(t, progress, 4, "income categories are excluded")

	assert.Equal(t, "rent", progress[0].Category.ID)
	assert.Equal(t, BudgetDanger, progress[0].Level)
	assert.True(t, progress[0].Over)

	assert.Equal(t, "food", progress[1].Category.ID)
	assert.Equal(t, BudgetWarning, progress[1].Level)
	assert.False(t, progress[1].Over)

	assert.Equal(t, "shopping", progress[2].Category.ID)
	assert.Equal(t, BudgetCaution, progress[2].Level)

	assert.Equal(t, "other", progress[3].Category.ID)
	assert.Equal(t, BudgetGood, progress[3].Level)

	top, err := c.Budgets.Progress(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestBudgetService_Unbudgeted(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	require.NoError(t, c.Budgets.Set(ctx, "rent", 1000))
	require.NoError(t, c.Budgets.Set(ctx, "food", 200))

	unbudgeted, err := c.Budgets.Unbudgeted(ctx)
	require.NoError(t, err)

	ids := make([]string, len(unbudgeted))
	for i, cat := range unbudgeted {
		ids[i] = cat.ID
	}
	assert.Equal(t, []string{"utilities", "transportation", "entertainment", "shopping", "healthcare", "other"}, ids)
}

func TestBudgetService_Suggested(t *testing.T) {
	c := newTestClient(t, nil)
	ctx := context.Background()

	addTransaction(t, c, "Paycheck", 2000, Income, "salary", "2024-01-01")
	addTransaction(t, c, "Rent", 1200, Expense, "rent", "2024-01-02")
	addTransaction(t, c, "Misc", 800, Expense, "other", "2024-01-03")

	suggested, err := c.Budgets.Suggested(ctx)
	require.NoError(t, err)
	assert.Equal(t, 600.0, suggested["rent"])
	assert.Equal(t, 800.0, suggested["other"])
	assert.Equal(t, 0.0, suggested["food"])
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		percentage float64
		want       BudgetLevel
	}{
		{0, BudgetGood},
		{49.99, BudgetGood},
		{50, BudgetCaution},
		{74.9, BudgetCaution},
		{75, BudgetWarning},
		{89.9, BudgetWarning},
		{90, BudgetDanger},
		{100, BudgetDanger},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.percentage), "percentage %v", tt.percentage)
	}
}
