package fintrack

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultRecentCount is the number of transactions Recent returns for n <= 0
const DefaultRecentCount = 5

// transactionService implements the TransactionService interface
type transactionService struct {
	client *Client
}

// List returns every transaction, newest insert first
func (s *transactionService) List(ctx context.Context) ([]Transaction, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	return cloneSlice(state.Transactions), nil
}

// Get retrieves a single transaction
func (s *transactionService) Get(ctx context.Context, transactionID string) (*Transaction, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	i := indexOf(state.Transactions, transactionID, txnKey)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "transaction %s", transactionID)
	}
	txn := state.Transactions[i]
	return &txn, nil
}

// Create creates a new transaction
func (s *transactionService) Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error) {
	if params == nil {
		params = &CreateTransactionParams{}
	}

	var created Transaction
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		now := s.client.now()
		created = Transaction{
			ID:          s.client.newID(),
			Description: strings.TrimSpace(params.Description),
			Amount:      params.Amount,
			Type:        params.Type,
			CategoryID:  params.CategoryID,
			Date:        params.Date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := validateTransaction(created); err != nil {
			return nil, err
		}
		return AddTransaction{Transaction: created}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update updates an existing transaction
func (s *transactionService) Update(ctx context.Context, transactionID string, params *UpdateTransactionParams) (*Transaction, error) {
	if params == nil {
		params = &UpdateTransactionParams{}
	}

	var updated Transaction
	_, err := s.client.mutate(ctx, func(state FinanceState) (Intent, error) {
		i := indexOf(state.Transactions, transactionID, txnKey)
		if i < 0 {
			return nil, errors.Wrapf(ErrNotFound, "transaction %s", transactionID)
		}

		txn := state.Transactions[i]
		if params.Description != nil {
			txn.Description = strings.TrimSpace(*params.Description)
		}
		if params.Amount != nil {
			txn.Amount = *params.Amount
		}
		if params.Type != nil {
			txn.Type = *params.Type
		}
		if params.CategoryID != nil {
			txn.CategoryID = *params.CategoryID
		}
		if params.Date != nil {
			txn.Date = *params.Date
		}
		txn.UpdatedAt = s.client.now()

		if err := validateTransaction(txn); err != nil {
			return nil, err
		}
		updated = txn
		return UpdateTransaction{Transaction: txn}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete deletes a transaction
func (s *transactionService) Delete(ctx context.Context, transactionID string) error {
	_, err := s.client.dispatch(ctx, DeleteTransaction{ID: transactionID})
	return err
}

// Recent returns the n latest transactions by date
func (s *transactionService) Recent(ctx context.Context, n int) ([]Transaction, error) {
	if n <= 0 {
		n = DefaultRecentCount
	}
	list, err := s.Query().OrderBy(SortByDate, Descending).Limit(n).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return list.Transactions, nil
}

// Monthly returns transactions of the given type dated in the current month
func (s *transactionService) Monthly(ctx context.Context, typ TransactionType) ([]Transaction, error) {
	now := s.client.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	list, err := s.Query().WithType(typ).Between(start, end).Limit(0).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return list.Transactions, nil
}

// Between returns transactions dated within [start, end]
func (s *transactionService) Between(ctx context.Context, start, end time.Time) ([]Transaction, error) {
	list, err := s.Query().Between(start, end).Limit(0).Execute(ctx)
	if err != nil {
		return nil, err
	}
	return list.Transactions, nil
}

// Query returns a transaction query builder
func (s *transactionService) Query() TransactionQueryBuilder {
	return &transactionQueryBuilder{
		client:    s.client,
		sortField: SortByDate,
		sortDir:   Descending,
		limit:     100,
		offset:    0,
	}
}

// SortField selects the query ordering key
type SortField string

// SortDirection selects ascending or descending order
type SortDirection string

const (
	SortByDate   SortField = "date"
	SortByAmount SortField = "amount"

	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// transactionQueryBuilder implements TransactionQueryBuilder
type transactionQueryBuilder struct {
	client     *Client
	start      *Date
	end        *Date
	typ        TransactionType
	categories map[string]bool
	minAmount  float64
	maxAmount  float64
	search     string
	sortField  SortField
	sortDir    SortDirection
	limit      int
	offset     int
}

// Between sets an inclusive date range filter
func (b *transactionQueryBuilder) Between(start, end time.Time) TransactionQueryBuilder {
	s, e := DateOf(start), DateOf(end)
	b.start, b.end = &s, &e
	return b
}

// WithType filters by transaction type
func (b *transactionQueryBuilder) WithType(typ TransactionType) TransactionQueryBuilder {
	b.typ = typ
	return b
}

// WithCategories filters by category IDs
func (b *transactionQueryBuilder) WithCategories(categoryIDs ...string) TransactionQueryBuilder {
	b.categories = make(map[string]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		b.categories[id] = true
	}
	return b
}

// WithMinAmount sets minimum amount filter
func (b *transactionQueryBuilder) WithMinAmount(amount float64) TransactionQueryBuilder {
	b.minAmount = amount
	return b
}

// WithMaxAmount sets maximum amount filter
func (b *transactionQueryBuilder) WithMaxAmount(amount float64) TransactionQueryBuilder {
	b.maxAmount = amount
	return b
}

// Search matches a case-insensitive substring of the description
func (b *transactionQueryBuilder) Search(query string) TransactionQueryBuilder {
	b.search = strings.ToLower(strings.TrimSpace(query))
	return b
}

// OrderBy sets the result ordering. Ties keep insertion order.
func (b *transactionQueryBuilder) OrderBy(field SortField, dir SortDirection) TransactionQueryBuilder {
	b.sortField = field
	b.sortDir = dir
	return b
}

// Limit sets result limit. Zero or less returns every match.
func (b *transactionQueryBuilder) Limit(limit int) TransactionQueryBuilder {
	b.limit = limit
	return b
}

// Offset sets result offset
func (b *transactionQueryBuilder) Offset(offset int) TransactionQueryBuilder {
	if offset < 0 {
		offset = 0
	}
	b.offset = offset
	return b
}

func (b *transactionQueryBuilder) matches(t Transaction) bool {
	if b.typ != "" && t.Type != b.typ {
		return false
	}
	if len(b.categories) > 0 && !b.categories[t.CategoryID] {
		return false
	}
	if b.start != nil && b.end != nil && !t.Date.Within(*b.start, *b.end) {
		return false
	}
	if b.minAmount > 0 && t.Amount < b.minAmount {
		return false
	}
	if b.maxAmount > 0 && t.Amount > b.maxAmount {
		return false
	}
	if b.search != "" && !strings.Contains(strings.ToLower(t.Description), b.search) {
		return false
	}
	return true
}

func (b *transactionQueryBuilder) less(x, y Transaction) bool {
	var lt bool
	switch b.sortField {
	case SortByAmount:
		if x.Amount == y.Amount {
			return false
		}
		lt = x.Amount < y.Amount
	default:
		if x.Date.Equal(y.Date.Time) {
			return false
		}
		lt = x.Date.Before(y.Date.Time)
	}
	if b.sortDir == Ascending {
		return lt
	}
	return !lt
}

// run returns every match in query order
func (b *transactionQueryBuilder) run() ([]Transaction, error) {
	state, err := b.client.current()
	if err != nil {
		return nil, err
	}

	matched := make([]Transaction, 0, len(state.Transactions))
	for _, t := range state.Transactions {
		if b.matches(t) {
			matched = append(matched, t)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return b.less(matched[i], matched[j])
	})
	return matched, nil
}

// Execute runs the query
func (b *transactionQueryBuilder) Execute(ctx context.Context) (*TransactionList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched, err := b.run()
	if err != nil {
		return nil, err
	}

	total := len(matched)
	start := b.offset
	if start > total {
		start = total
	}
	end := total
	if b.limit > 0 && start+b.limit < total {
		end = start + b.limit
	}

	return &TransactionList{
		Transactions: matched[start:end],
		TotalCount:   total,
		HasMore:      end < total,
		NextOffset:   end,
	}, nil
}

// Stream returns results as a channel
func (b *transactionQueryBuilder) Stream(ctx context.Context) (<-chan Transaction, <-chan error) {
	txnChan := make(chan Transaction)
	errChan := make(chan error, 1)

	go func() {
		defer close(txnChan)
		defer close(errChan)

		matched, err := b.run()
		if err != nil {
			errChan <- err
			return
		}

		for _, txn := range matched {
			select {
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			case txnChan <- txn:
			}
		}
	}()

	return txnChan, errChan
}

// GroupByDay groups every match by calendar day. Days follow the query's
// sort direction; transactions within a day keep the query order.
func (b *transactionQueryBuilder) GroupByDay(ctx context.Context) ([]DayGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched, err := b.run()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var groups []DayGroup
	for _, t := range matched {
		key := t.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: t.Date})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if b.sortDir == Ascending {
			return groups[i].Date.Before(groups[j].Date.Time)
		}
		return groups[i].Date.After(groups[j].Date.Time)
	})
	return groups, nil
}
