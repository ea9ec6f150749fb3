package fintrack

import "context"

// summaryService implements the SummaryService interface
type summaryService struct {
	client *Client
}

// Get returns the full derived summary
func (s *summaryService) Get(ctx context.Context) (*Summary, error) {
	return s.client.summary()
}

// Totals returns total income, total expenses and balance
func (s *summaryService) Totals(ctx context.Context) (income, expenses, balance float64, err error) {
	summary, err := s.client.summary()
	if err != nil {
		return 0, 0, 0, err
	}
	return summary.TotalIncome, summary.TotalExpenses, summary.Balance, nil
}

// summary derives values from the committed state
func (c *Client) summary() (*Summary, error) {
	state, err := c.current()
	if err != nil {
		return nil, err
	}
	return c.calc.compute(state), nil
}
