package fintrack

import (
	"context"
	"fmt"
	"sort"
)

// IssueKind classifies an integrity finding
type IssueKind string

const (
	IssueOrphanedCategory  IssueKind = "orphaned_category"
	IssueTypeMismatch      IssueKind = "type_mismatch"
	IssueDuplicateID       IssueKind = "duplicate_id"
	IssueNonPositiveAmount IssueKind = "non_positive_amount"
	IssueOrphanedBudget    IssueKind = "orphaned_budget"
	IssueNegativeGoal      IssueKind = "negative_goal_amount"
)

// IntegrityIssue is one questionable record
type IntegrityIssue struct {
	Kind     IssueKind `json:"kind"`
	RecordID string    `json:"recordId"`
	Message  string    `json:"message"`
}

// IntegrityReport lists everything CheckIntegrity found
type IntegrityReport struct {
	Issues []IntegrityIssue `json:"issues"`
}

// OK reports whether no issue was found
func (r *IntegrityReport) OK() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of kind
func (r *IntegrityReport) Count(kind IssueKind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

func (r *IntegrityReport) add(kind IssueKind, id, format string, args ...interface{}) {
	r.Issues = append(r.Issues, IntegrityIssue{Kind: kind, RecordID: id, Message: fmt.Sprintf(format, args...)})
}

// CheckIntegrity reports data the calculator tolerates but a user may not
// expect. It never modifies state.
func CheckIntegrity(state FinanceState) *IntegrityReport {
	r := &IntegrityReport{Issues: []IntegrityIssue{}}

	categories := make(map[string]Category, len(state.Categories))
	for _, c := range state.Categories {
		if _, dup := categories[c.ID]; dup {
			r.add(IssueDuplicateID, c.ID, "category id %q appears more than once", c.ID)
			continue
		}
		categories[c.ID] = c
	}

	seen := make(map[string]bool, len(state.Transactions))
	for _, t := range state.Transactions {
		if seen[t.ID] {
			r.add(IssueDuplicateID, t.ID, "transaction id %q appears more than once", t.ID)
		}
		seen[t.ID] = true

		if t.Amount <= 0 {
			r.add(IssueNonPositiveAmount, t.ID, "transaction %q has amount %.2f", t.Description, t.Amount)
		}

		c, ok := categories[t.CategoryID]
		if !ok {
			r.add(IssueOrphanedCategory, t.ID, "transaction %q references missing category %q", t.Description, t.CategoryID)
			continue
		}
		if c.Type != t.Type {
			r.add(IssueTypeMismatch, t.ID, "%s transaction %q is filed under %s category %q", t.Type, t.Description, c.Type, c.ID)
		}
	}

	budgetIDs := make([]string, 0, len(state.Budgets))
	for id := range state.Budgets {
		budgetIDs = append(budgetIDs, id)
	}
	sort.Strings(budgetIDs)
	for _, id := range budgetIDs {
		amount := state.Budgets[id]
		if _, ok := categories[id]; !ok {
			r.add(IssueOrphanedBudget, id, "budget references missing category %q", id)
		}
		if amount <= 0 {
			r.add(IssueNonPositiveAmount, id, "budget for %q is %.2f", id, amount)
		}
	}

	goals := make(map[string]bool, len(state.SavingsGoals))
	for _, g := range state.SavingsGoals {
		if goals[g.ID] {
			r.add(IssueDuplicateID, g.ID, "savings goal id %q appears more than once", g.ID)
		}
		goals[g.ID] = true

		if g.TargetAmount <= 0 {
			r.add(IssueNonPositiveAmount, g.ID, "savings goal %q has target %.2f", g.Name, g.TargetAmount)
		}
		if g.CurrentAmount < 0 {
			r.add(IssueNegativeGoal, g.ID, "savings goal %q has current amount %.2f", g.Name, g.CurrentAmount)
		}
	}

	return r
}

// CheckIntegrity runs CheckIntegrity over the current state
func (c *Client) CheckIntegrity(ctx context.Context) (*IntegrityReport, error) {
	state, err := c.current()
	if err != nil {
		return nil, err
	}
	return CheckIntegrity(state), nil
}
