package main

import (
	"context"
	"fmt"
	"time"

	"github.com/eshaffer321/fintrack-go/pkg/fintrack"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// financeTools holds the finance client and implements all tool handlers
type financeTools struct {
	client *fintrack.Client
	now    func() time.Time
}

func (t *financeTools) today() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// GetSummary tool - retrieves totals and per-category spending
type GetSummaryInput struct {
	// No input parameters needed
}

type CategoryAmount struct {
	CategoryID string  `json:"categoryId" jsonschema:"Category ID"`
	Category   string  `json:"category" jsonschema:"Category name"`
	Amount     float64 `json:"amount" jsonschema:"Summed amount for the category"`
}

type GetSummaryOutput struct {
	Currency      string           `json:"currency" jsonschema:"Display currency code"`
	TotalIncome   float64          `json:"totalIncome" jsonschema:"Sum of all income transactions"`
	TotalExpenses float64          `json:"totalExpenses" jsonschema:"Sum of all expense transactions"`
	Balance       float64          `json:"balance" jsonschema:"Total income minus total expenses"`
	Expenses      []CategoryAmount `json:"expenses" jsonschema:"Spending per expense category with non-zero totals"`
	Income        []CategoryAmount `json:"income" jsonschema:"Income per income category with non-zero totals"`
}

func (t *financeTools) GetSummary(ctx context.Context, req *mcp.CallToolRequest, input GetSummaryInput) (*mcp.CallToolResult, GetSummaryOutput, error) {
	summary, err := t.client.Summary.Get(ctx)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to compute summary: %w", err)
	}

	currency, err := t.client.Settings.Currency(ctx)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to read currency: %w", err)
	}

	categories, err := t.client.Categories.List(ctx)
	if err != nil {
		return nil, GetSummaryOutput{}, fmt.Errorf("failed to fetch categories: %w", err)
	}

	output := GetSummaryOutput{
		Currency:      currency,
		TotalIncome:   summary.TotalIncome,
		TotalExpenses: summary.TotalExpenses,
		Balance:       summary.Balance,
		Expenses:      []CategoryAmount{},
		Income:        []CategoryAmount{},
	}

	// Category order keeps the output stable
	for _, c := range categories {
		if amount := summary.ExpensesByCategory[c.ID]; amount > 0 {
			output.Expenses = append(output.Expenses, CategoryAmount{CategoryID: c.ID, Category: c.Name, Amount: amount})
		}
		if amount := summary.IncomeByCategory[c.ID]; amount > 0 {
			output.Income = append(output.Income, CategoryAmount{CategoryID: c.ID, Category: c.Name, Amount: amount})
		}
	}

	return nil, output, nil
}

// GetTransactions tool - queries transactions with optional filters
type GetTransactionsInput struct {
	StartDate string `json:"startDate,omitempty" jsonschema:"Start date in YYYY-MM-DD format (optional)"`
	EndDate   string `json:"endDate,omitempty" jsonschema:"End date in YYYY-MM-DD format (optional)"`
	Type      string `json:"type,omitempty" jsonschema:"Filter by type: income or expense (optional)"`
	Category  string `json:"category,omitempty" jsonschema:"Filter by category ID (optional)"`
	Search    string `json:"search,omitempty" jsonschema:"Case-insensitive description search (optional)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of transactions to return (default: 50)"`
}

type TransactionEntry struct {
	ID          string  `json:"id" jsonschema:"Transaction ID"`
	Date        string  `json:"date" jsonschema:"Transaction date (YYYY-MM-DD)"`
	Description string  `json:"description" jsonschema:"Transaction description"`
	Amount      float64 `json:"amount" jsonschema:"Transaction amount (always positive)"`
	Type        string  `json:"type" jsonschema:"income or expense"`
	CategoryID  string  `json:"categoryId" jsonschema:"Category ID"`
	Category    string  `json:"category" jsonschema:"Category name, or Uncategorized"`
}

type GetTransactionsOutput struct {
	Transactions []TransactionEntry `json:"transactions" jsonschema:"List of transactions"`
	Count        int                `json:"count" jsonschema:"Number of transactions returned"`
	Total        int                `json:"total" jsonschema:"Number of transactions matching the filters"`
}

func (t *financeTools) GetTransactions(ctx context.Context, req *mcp.CallToolRequest, input GetTransactionsInput) (*mcp.CallToolResult, GetTransactionsOutput, error) {
	// Build query
	query := t.client.Transactions.Query()

	// Parse and apply date filters
	if input.StartDate != "" || input.EndDate != "" {
		var startDate, endDate time.Time

		if input.StartDate != "" {
			d, err := fintrack.ParseDate(input.StartDate)
			if err != nil {
				return nil, GetTransactionsOutput{}, fmt.Errorf("invalid startDate format (expected YYYY-MM-DD): %w", err)
			}
			startDate = d.Time
		}

		if input.EndDate != "" {
			d, err := fintrack.ParseDate(input.EndDate)
			if err != nil {
				return nil, GetTransactionsOutput{}, fmt.Errorf("invalid endDate format (expected YYYY-MM-DD): %w", err)
			}
			endDate = d.Time
		}

		if !startDate.IsZero() && !endDate.IsZero() {
			query = query.Between(startDate, endDate)
		} else if !startDate.IsZero() {
			// Start date only - go to today
			query = query.Between(startDate, t.today())
		} else {
			// End date only - go back 30 days
			query = query.Between(endDate.AddDate(0, 0, -30), endDate)
		}
	}

	if input.Type != "" {
		typ := fintrack.TransactionType(input.Type)
		if !typ.Valid() {
			return nil, GetTransactionsOutput{}, fmt.Errorf("invalid type %q (expected income or expense)", input.Type)
		}
		query = query.WithType(typ)
	}

	if input.Category != "" {
		query = query.WithCategories(input.Category)
	}

	if input.Search != "" {
		query = query.Search(input.Search)
	}

	// Apply limit (default to 50)
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	query = query.Limit(limit)

	// Execute query
	result, err := query.Execute(ctx)
	if err != nil {
		return nil, GetTransactionsOutput{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	transactions := make([]TransactionEntry, 0, len(result.Transactions))
	for _, tx := range result.Transactions {
		category, err := t.client.Categories.Resolve(ctx, tx.CategoryID)
		if err != nil {
			return nil, GetTransactionsOutput{}, fmt.Errorf("failed to resolve category: %w", err)
		}

		transactions = append(transactions, TransactionEntry{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			CategoryID:  tx.CategoryID,
			Category:    category.Name,
		})
	}

	return nil, GetTransactionsOutput{
		Transactions: transactions,
		Count:        len(transactions),
		Total:        result.TotalCount,
	}, nil
}

// AddTransaction tool - records a transaction
type AddTransactionInput struct {
	Description string  `json:"description" jsonschema:"What the money was for"`
	Amount      float64 `json:"amount" jsonschema:"Positive amount"`
	Type        string  `json:"type" jsonschema:"income or expense"`
	CategoryID  string  `json:"categoryId" jsonschema:"Category ID from get_categories"`
	Date        string  `json:"date,omitempty" jsonschema:"Date in YYYY-MM-DD format (default: today)"`
}

type AddTransactionOutput struct {
	Transaction TransactionEntry `json:"transaction" jsonschema:"The recorded transaction"`
	Balance     float64          `json:"balance" jsonschema:"Balance after recording the transaction"`
}

func (t *financeTools) AddTransaction(ctx context.Context, req *mcp.CallToolRequest, input AddTransactionInput) (*mcp.CallToolResult, AddTransactionOutput, error) {
	date := fintrack.DateOf(t.today())
	if input.Date != "" {
		d, err := fintrack.ParseDate(input.Date)
		if err != nil {
			return nil, AddTransactionOutput{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
		}
		date = d
	}

	tx, err := t.client.Transactions.Create(ctx, &fintrack.CreateTransactionParams{
		Description: input.Description,
		Amount:      input.Amount,
		Type:        fintrack.TransactionType(input.Type),
		CategoryID:  input.CategoryID,
		Date:        date,
	})
	if err != nil {
		return nil, AddTransactionOutput{}, fmt.Errorf("failed to add transaction: %w", err)
	}

	category, err := t.client.Categories.Resolve(ctx, tx.CategoryID)
	if err != nil {
		return nil, AddTransactionOutput{}, fmt.Errorf("failed to resolve category: %w", err)
	}

	_, _, balance, err := t.client.Summary.Totals(ctx)
	if err != nil {
		return nil, AddTransactionOutput{}, fmt.Errorf("failed to compute balance: %w", err)
	}

	return nil, AddTransactionOutput{
		Transaction: TransactionEntry{
			ID:          tx.ID,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			CategoryID:  tx.CategoryID,
			Category:    category.Name,
		},
		Balance: balance,
	}, nil
}

// GetBudgets tool - retrieves budget consumption
type GetBudgetsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of budgeted categories to return (default: all)"`
}

type BudgetEntry struct {
	CategoryID string  `json:"categoryId" jsonschema:"Category ID"`
	Category   string  `json:"category" jsonschema:"Category name"`
	Budgeted   float64 `json:"budgeted" jsonschema:"Monthly budget for this category"`
	Spent      float64 `json:"spent" jsonschema:"Amount spent"`
	Remaining  float64 `json:"remaining" jsonschema:"Remaining budget, negative when over"`
	Percentage float64 `json:"percentage" jsonschema:"Percentage of budget spent, capped at 100"`
	Level      string  `json:"level" jsonschema:"good, caution, warning or danger"`
	Over       bool    `json:"over" jsonschema:"Whether spending exceeds the budget"`
}

type GetBudgetsOutput struct {
	Budgets    []BudgetEntry      `json:"budgets" jsonschema:"Budgeted expense categories, most consumed first"`
	Suggested  map[string]float64 `json:"suggested" jsonschema:"Suggested budget per expense category ID"`
	Unbudgeted []string           `json:"unbudgeted" jsonschema:"Expense category IDs without a budget"`
}

func (t *financeTools) GetBudgets(ctx context.Context, req *mcp.CallToolRequest, input GetBudgetsInput) (*mcp.CallToolResult, GetBudgetsOutput, error) {
	progress, err := t.client.Budgets.Progress(ctx, input.Limit)
	if err != nil {
		return nil, GetBudgetsOutput{}, fmt.Errorf("failed to fetch budgets: %w", err)
	}

	suggested, err := t.client.Budgets.Suggested(ctx)
	if err != nil {
		return nil, GetBudgetsOutput{}, fmt.Errorf("failed to compute suggested budgets: %w", err)
	}

	unbudgeted, err := t.client.Budgets.Unbudgeted(ctx)
	if err != nil {
		return nil, GetBudgetsOutput{}, fmt.Errorf("failed to fetch unbudgeted categories: %w", err)
	}

	output := GetBudgetsOutput{
		Budgets:    make([]BudgetEntry, 0, len(progress)),
		Suggested:  suggested,
		Unbudgeted: make([]string, 0, len(unbudgeted)),
	}

	for _, p := range progress {
		output.Budgets = append(output.Budgets, BudgetEntry{
			CategoryID: p.Category.ID,
			Category:   p.Category.Name,
			Budgeted:   p.Status.Budget,
			Spent:      p.Status.Spent,
			Remaining:  p.Status.Remaining,
			Percentage: p.Status.Percentage,
			Level:      string(p.Level),
			Over:       p.Over,
		})
	}

	for _, c := range unbudgeted {
		output.Unbudgeted = append(output.Unbudgeted, c.ID)
	}

	return nil, output, nil
}

// GetGoals tool - retrieves savings goals
type GetGoalsInput struct {
	ActiveOnly bool `json:"activeOnly,omitempty" jsonschema:"Only return goals that have not reached their target"`
}

type GoalEntry struct {
	ID            string  `json:"id" jsonschema:"Goal ID"`
	Name          string  `json:"name" jsonschema:"Goal name"`
	TargetAmount  float64 `json:"targetAmount" jsonschema:"Target amount"`
	CurrentAmount float64 `json:"currentAmount" jsonschema:"Amount saved so far"`
	Percent       float64 `json:"percent" jsonschema:"Percent complete, may exceed 100"`
	Remaining     float64 `json:"remaining" jsonschema:"Amount left to save, negative when exceeded"`
	Completed     bool    `json:"completed" jsonschema:"Whether the target has been reached"`
	TargetDate    string  `json:"targetDate,omitempty" jsonschema:"Target date (YYYY-MM-DD)"`
	DaysLeft      *int    `json:"daysLeft,omitempty" jsonschema:"Days until the target date, negative when past due"`
}

type GetGoalsOutput struct {
	Goals []GoalEntry `json:"goals" jsonschema:"Savings goals in creation order"`
	Count int         `json:"count" jsonschema:"Number of goals returned"`
}

func (t *financeTools) GetGoals(ctx context.Context, req *mcp.CallToolRequest, input GetGoalsInput) (*mcp.CallToolResult, GetGoalsOutput, error) {
	goals, err := t.client.Goals.List(ctx)
	if err != nil {
		return nil, GetGoalsOutput{}, fmt.Errorf("failed to fetch goals: %w", err)
	}

	now := t.today()
	entries := make([]GoalEntry, 0, len(goals))
	for _, g := range goals {
		progress := t.client.Goals.Progress(g, now)
		if input.ActiveOnly && progress.Completed {
			continue
		}

		entry := GoalEntry{
			ID:            g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Percent:       progress.Percent,
			Remaining:     progress.Remaining,
			Completed:     progress.Completed,
			DaysLeft:      progress.DaysLeft,
		}

		if g.TargetDate != nil {
			entry.TargetDate = g.TargetDate.String()
		}

		entries = append(entries, entry)
	}

	return nil, GetGoalsOutput{
		Goals: entries,
		Count: len(entries),
	}, nil
}

// GetCategories tool - retrieves all categories
type GetCategoriesInput struct {
	Type string `json:"type,omitempty" jsonschema:"Filter by type: income or expense (optional)"`
}

type CategoryEntry struct {
	ID    string `json:"id" jsonschema:"Category ID"`
	Name  string `json:"name" jsonschema:"Category name"`
	Type  string `json:"type" jsonschema:"income or expense"`
	Color string `json:"color" jsonschema:"Display color (hex code)"`
}

type GetCategoriesOutput struct {
	Categories []CategoryEntry `json:"categories" jsonschema:"List of categories"`
	Count      int             `json:"count" jsonschema:"Number of categories"`
}

func (t *financeTools) GetCategories(ctx context.Context, req *mcp.CallToolRequest, input GetCategoriesInput) (*mcp.CallToolResult, GetCategoriesOutput, error) {
	var (
		categories []fintrack.Category
		err        error
	)
	if input.Type != "" {
		categories, err = t.client.Categories.ByType(ctx, fintrack.TransactionType(input.Type))
	} else {
		categories, err = t.client.Categories.List(ctx)
	}
	if err != nil {
		return nil, GetCategoriesOutput{}, fmt.Errorf("failed to fetch categories: %w", err)
	}

	entries := make([]CategoryEntry, 0, len(categories))
	for _, c := range categories {
		entries = append(entries, CategoryEntry{
			ID:    c.ID,
			Name:  c.Name,
			Type:  string(c.Type),
			Color: c.Color,
		})
	}

	return nil, GetCategoriesOutput{
		Categories: entries,
		Count:      len(entries),
	}, nil
}
