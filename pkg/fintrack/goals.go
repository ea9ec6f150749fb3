package fintrack

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultTopGoals is how many active goals TopActive returns for n <= 0
const DefaultTopGoals = 3

// goalService implements the GoalService interface
type goalService struct {
	client *Client
}

func (s *goalService) List(ctx context.Context) ([]SavingsGoal, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	return state.Clone().SavingsGoals, nil
}

func (s *goalService) Get(ctx context.Context, goalID string) (*SavingsGoal, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	i := indexOf(state.SavingsGoals, goalID, goalKey)
	if i < 0 {
		return nil, errors.Wrapf(ErrNotFound, "savings goal %s", goalID)
	}
	g := state.SavingsGoals[i].clone()
	return &g, nil
}

func (s *goalService) Create(ctx context.Context, params *CreateGoalParams) (*SavingsGoal, error) {
	if params == nil {
		params = &CreateGoalParams{}
	}

	var created SavingsGoal
	_, err := s.client.mutate(ctx, func(FinanceState) (Intent, error) {
		now := s.client.now()
		created = SavingsGoal{
			ID:           s.client.newID(),
			Name:         strings.TrimSpace(params.Name),
			TargetAmount: params.TargetAmount,
			TargetDate:   params.TargetDate,
			Description:  params.Description,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if params.CurrentAmount != nil {
			created.CurrentAmount = *params.CurrentAmount
		}
		created = created.clone()
		if err := validateGoal(created); err != nil {
			return nil, err
		}
		return AddSavingsGoal{Goal: created}, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *goalService) Update(ctx context.Context, goalID string, params *UpdateGoalParams) (*SavingsGoal, error) {
	if params == nil {
		params = &UpdateGoalParams{}
	}

	return s.modify(ctx, goalID, func(g *SavingsGoal) error {
		if params.Name != nil {
			g.Name = strings.TrimSpace(*params.Name)
		}
		if params.TargetAmount != nil {
			g.TargetAmount = *params.TargetAmount
		}
		if params.CurrentAmount != nil {
			g.CurrentAmount = *params.CurrentAmount
		}
		if params.ClearDate {
			g.TargetDate = nil
		} else if params.TargetDate != nil {
			d := *params.TargetDate
			g.TargetDate = &d
		}
		if params.Description != nil {
			g.Description = *params.Description
		}
		return nil
	})
}

func (s *goalService) Delete(ctx context.Context, goalID string) error {
	_, err := s.client.dispatch(ctx, DeleteSavingsGoal{ID: goalID})
	return err
}

func (s *goalService) Contribute(ctx context.Context, goalID string, amount float64) (*SavingsGoal, error) {
	return s.modify(ctx, goalID, func(g *SavingsGoal) error {
		if err := validateContribution(amount); err != nil {
			return err
		}
		g.CurrentAmount = decimal.NewFromFloat(g.CurrentAmount).
			Add(decimal.NewFromFloat(amount)).
			InexactFloat64()
		return nil
	})
}

// modify applies change to a copy of the goal, validates and commits it
func (s *goalService) modify(ctx context.Context, goalID string, change func(g *SavingsGoal) error) (*SavingsGoal, error) {
	var updated SavingsGoal
	_, err := s.client.mutate(ctx, func(state FinanceState) (Intent, error) {
		i := indexOf(state.SavingsGoals, goalID, goalKey)
		if i < 0 {
			return nil, errors.Wrapf(ErrNotFound, "savings goal %s", goalID)
		}

		g := state.SavingsGoals[i].clone()
		if err := change(&g); err != nil {
			return nil, err
		}
		g.UpdatedAt = s.client.now()
		if err := validateGoal(g); err != nil {
			return nil, err
		}
		updated = g
		return UpdateSavingsGoal{Goal: g}, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *goalService) Partition(ctx context.Context) (*GoalPartition, error) {
	state, err := s.client.current()
	if err != nil {
		return nil, err
	}
	p := &GoalPartition{Active: []SavingsGoal{}, Completed: []SavingsGoal{}}
	for _, g := range state.SavingsGoals {
		if g.Completed() {
			p.Completed = append(p.Completed, g.clone())
		} else {
			p.Active = append(p.Active, g.clone())
		}
	}
	return p, nil
}

func (s *goalService) TopActive(ctx context.Context, n int) ([]SavingsGoal, error) {
	if n <= 0 {
		n = DefaultTopGoals
	}
	p, err := s.Partition(ctx)
	if err != nil {
		return nil, err
	}
	active := p.Active
	sort.SliceStable(active, func(i, j int) bool {
		return completion(active[i]) > completion(active[j])
	})
	if len(active) > n {
		active = active[:n]
	}
	return active, nil
}

func (s *goalService) Progress(goal SavingsGoal, now time.Time) GoalProgress {
	return ProgressOf(goal, now)
}

// ProgressOf reports percent complete, amount left and days to the target
// date. Days are whole days rounded up from now.
func ProgressOf(goal SavingsGoal, now time.Time) GoalProgress {
	p := GoalProgress{
		Percent:   completion(goal),
		Remaining: decimal.NewFromFloat(goal.TargetAmount).Sub(decimal.NewFromFloat(goal.CurrentAmount)).InexactFloat64(),
		Completed: goal.Completed(),
	}
	if goal.TargetDate != nil && !goal.TargetDate.IsZero() {
		days := int(math.Ceil(goal.TargetDate.Sub(now).Hours() / 24))
		p.DaysLeft = &days
	}
	return p
}

func completion(g SavingsGoal) float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}
