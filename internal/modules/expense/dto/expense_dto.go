package dto

import "time"

type CreateExpenseRequest struct {
	Amount   float64    `json:"amount" binding:"required,gt=0"`
	Category string     `json:"category" binding:"required,oneof=transport accommodation food activities shopping other"`
	Note     string     `json:"note" binding:"omitempty,max=255"`
	SpentAt  *time.Time `json:"spent_at"`
}

type UpdateExpenseRequest struct {
	Amount   *float64   `json:"amount" binding:"omitempty,gt=0"`
	Category *string    `json:"category" binding:"omitempty,oneof=transport accommodation food activities shopping other"`
	Note     *string    `json:"note" binding:"omitempty,max=255"`
	SpentAt  *time.Time `json:"spent_at"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ExpenseSummary reports how trip spending stands against the budget.
// Remaining goes negative when the trip is over budget.
type ExpenseSummary struct {
	EstimatedBudget float64         `json:"estimated_budget"`
	TotalSpent      float64         `json:"total_spent"`
	Remaining       float64         `json:"remaining"`
	ExpenseCount    int64           `json:"expense_count"`
	ByCategory      []CategoryTotal `json:"by_category"`
}
