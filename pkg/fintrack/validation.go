package fintrack

import (
	"fmt"
	"math"
	"strings"
)

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func validateTransaction(t Transaction) error {
	ve := &ValidationErrors{}
	if strings.TrimSpace(t.Description) == "" {
		ve.add("description", "is required", t.Description)
	}
	if !validAmount(t.Amount) {
		ve.add("amount", "must be greater than zero", t.Amount)
	}
	if !t.Type.Valid() {
		ve.add("type", "must be income or expense", t.Type)
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		ve.add("categoryId", "is required", t.CategoryID)
	}
	if t.Date.IsZero() {
		ve.add("date", "is required", nil)
	}
	return ve.err()
}

func validateCategory(c Category) error {
	ve := &ValidationErrors{}
	if strings.TrimSpace(c.Name) == "" {
		ve.add("name", "is required", c.Name)
	}
	if !c.Type.Valid() {
		ve.add("type", "must be income or expense", c.Type)
	}
	return ve.err()
}

func validateBudget(categoryID string, amount float64) error {
	ve := &ValidationErrors{}
	if strings.TrimSpace(categoryID) == "" {
		ve.add("categoryId", "is required", categoryID)
	}
	if !validAmount(amount) {
		ve.add("amount", "must be greater than zero", amount)
	}
	return ve.err()
}

func validateGoal(g SavingsGoal) error {
	ve := &ValidationErrors{}
	if strings.TrimSpace(g.Name) == "" {
		ve.add("name", "is required", g.Name)
	}
	if !validAmount(g.TargetAmount) {
		ve.add("targetAmount", "must be greater than zero", g.TargetAmount)
	}
	if g.CurrentAmount < 0 || math.IsNaN(g.CurrentAmount) || math.IsInf(g.CurrentAmount, 0) {
		ve.add("currentAmount", "must not be negative", g.CurrentAmount)
	}
	return ve.err()
}

func validateContribution(amount float64) error {
	if validAmount(amount) {
		return nil
	}
	ve := &ValidationErrors{}
	ve.add("amount", "must be greater than zero", amount)
	return ve
}

// normalizeCurrency upper-cases code and checks it is three letters
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	ok := len(code) == 3
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			ok = false
		}
	}
	if !ok {
		ve := &ValidationErrors{}
		ve.add("currency", "must be a three-letter currency code", code)
		return "", ve
	}
	return code, nil
}

func validateRates(rates map[string]float64) error {
	ve := &ValidationErrors{}
	if rates == nil {
		ve.add("rates", "is required", nil)
	}
	for code, rate := range rates {
		if code == "" {
			ve.add("rates", "currency code must not be empty", code)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
			ve.add("rates."+code, "must be a non-negative number", rate)
		}
	}
	return ve.err()
}

// validateDocument checks the shape of every stored record. Cross-record
// problems such as orphaned categories are left to CheckIntegrity.
func validateDocument(s FinanceState) error {
	ve := &ValidationErrors{}
	if strings.TrimSpace(s.Currency) == "" {
		ve.add("currency", "is required", s.Currency)
	}
	for i, t := range s.Transactions {
		field := fmt.Sprintf("transactions[%d]", i)
		if t.ID == "" {
			ve.add(field+".id", "is required", nil)
		}
		if !validAmount(t.Amount) {
			ve.add(field+".amount", "must be greater than zero", t.Amount)
		}
		if !t.Type.Valid() {
			ve.add(field+".type", "must be income or expense", t.Type)
		}
	}
	for i, c := range s.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if c.ID == "" {
			ve.add(field+".id", "is required", nil)
		}
		if !c.Type.Valid() {
			ve.add(field+".type", "must be income or expense", c.Type)
		}
	}
	for i, g := range s.SavingsGoals {
		if g.ID == "" {
			ve.add(fmt.Sprintf("savingsGoals[%d].id", i), "is required", nil)
		}
	}
	return ve.err()
}
