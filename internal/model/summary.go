package model

import "github.com/shopspring/decimal"

// CategorySummary is the expense total of one category.
// Amount is absolute; Percentage is its share of all expenses, 2 decimals.
type CategorySummary struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SubscriptionSummary describes one recurring merchant.
type SubscriptionSummary struct {
	Merchant    string          `json:"merchant"`
	AvgAmount   decimal.Decimal `json:"avgAmount"`
	Occurrences int             `json:"occurrences"`
}

// MonthlySummary is the aggregate of one statement's transactions.
type MonthlySummary struct {
	TotalExpenses         decimal.Decimal       `json:"totalExpenses"`
	TotalIncome           decimal.Decimal       `json:"totalIncome"`
	RestaurantExpenses    decimal.Decimal       `json:"restaurantExpenses"`
	FoodExpenses          decimal.Decimal       `json:"foodExpenses"`
	SubscriptionsExpenses decimal.Decimal       `json:"subscriptionsExpenses"`
	Categories            []CategorySummary     `json:"categories"`
	SubscriptionsTop      []SubscriptionSummary `json:"subscriptionsTop"`
	Insight               string                `json:"insight"`
}

// Net returns income minus expenses.
func (s MonthlySummary) Net() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpenses)
}
