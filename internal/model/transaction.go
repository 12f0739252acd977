// Package model defines domain types for stmtburn transactions and summaries.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the only currency Tatra banka statements in this format carry.
const Currency = "EUR"

// Transaction is one booked record from a statement.
// Amount is negative for expenses and positive for income.
type Transaction struct {
	BookedAt     time.Time       `json:"bookedAt"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
	Counterparty string          `json:"counterparty,omitempty"`

	CategoryCode string `json:"categoryCode,omitempty"`
	CategoryName string `json:"categoryName,omitempty"`

	Subscription bool `json:"subscription"`
	Regular      bool `json:"regular"`
}

// IsExpense reports whether the transaction moved money out of the account.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsIncome reports whether the transaction moved money into the account.
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// WithCategory returns a copy of t tagged with c.
func (t Transaction) WithCategory(c Category) Transaction {
	t.CategoryCode = c.Code
	t.CategoryName = c.Name
	return t
}
