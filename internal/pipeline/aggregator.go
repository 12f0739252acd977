// Package pipeline classifies, flags and aggregates parsed statements.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// MaxTopSubscriptions caps MonthlySummary.SubscriptionsTop.
const MaxTopSubscriptions = 10

// UnknownMerchant names subscription groups without a counterparty.
const UnknownMerchant = "Unknown"

var (
	hundred = decimal.NewFromInt(100)

	foodCodes       = []string{model.FoodGroceries.Code, model.FoodDelivery.Code, model.FoodCoffeeSnacks.Code}
	restaurantCodes = []string{model.FoodRestaurant.Code}
)

// Summarize computes the monthly summary of a classified, flagged batch.
// It never fails; an empty batch yields zero totals and empty lists.
func Summarize(txs []model.Transaction) model.MonthlySummary {
	s := model.MonthlySummary{
		TotalExpenses:         decimal.Zero,
		TotalIncome:           decimal.Zero,
		RestaurantExpenses:    decimal.Zero,
		FoodExpenses:          decimal.Zero,
		SubscriptionsExpenses: decimal.Zero,
	}

	for _, tx := range txs {
		switch {
		case tx.IsExpense():
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		case tx.IsIncome():
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		}
	}
	s.TotalExpenses = s.TotalExpenses.Abs()

	s.Categories = AggregateCategories(txs, s.TotalExpenses)
	s.FoodExpenses = sumByCodes(s.Categories, foodCodes...)
	s.RestaurantExpenses = sumByCodes(s.Categories, restaurantCodes...)
	for _, c := range s.Categories {
		if model.IsSubscriptionCode(c.Code) {
			s.SubscriptionsExpenses = s.SubscriptionsExpenses.Add(c.Amount)
		}
	}

	s.SubscriptionsTop = TopSubscriptions(txs, MaxTopSubscriptions)
	s.Insight = insight(s)
	return s
}

// AggregateCategories groups expenses by category code, sorted by amount
// descending and then by code. Transactions without a code land in the
// model.UncategorizedCode bucket.
func AggregateCategories(txs []model.Transaction, totalExpenses decimal.Decimal) []model.CategorySummary {
	index := make(map[string]int)
	cats := []model.CategorySummary{}

	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		code := tx.CategoryCode
		if code == "" {
			code = model.UncategorizedCode
		}
		i, ok := index[code]
		if !ok {
			i = len(cats)
			index[code] = i
			cats = append(cats, model.CategorySummary{
				Code:   code,
				Name:   categoryName(code, tx.CategoryName),
				Amount: decimal.Zero,
			})
		}
		cats[i].Amount = cats[i].Amount.Add(tx.Amount.Abs())
	}

	for i := range cats {
		cats[i].Percentage = Percentage(cats[i].Amount, totalExpenses)
	}

	sort.SliceStable(cats, func(i, j int) bool {
		if c := cats[i].Amount.Cmp(cats[j].Amount); c != 0 {
			return c > 0
		}
		return cats[i].Code < cats[j].Code
	})
	return cats
}

// Percentage returns part*100/total rounded half-up to 2 decimals, or 0
// when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(total, 2)
}

// TopSubscriptions averages flagged transactions per counterparty and
// returns the limit largest by average amount.
func TopSubscriptions(txs []model.Transaction, limit int) []model.SubscriptionSummary {
	type acc struct {
		sum   decimal.Decimal
		count int
	}
	index := make(map[string]*acc)
	var merchants []string

	for _, tx := range txs {
		if !tx.Subscription {
			continue
		}
		m := tx.Counterparty
		if m == "" {
			m = UnknownMerchant
		}
		a, ok := index[m]
		if !ok {
			a = &acc{sum: decimal.Zero}
			index[m] = a
			merchants = append(merchants, m)
		}
		a.sum = a.sum.Add(tx.Amount.Abs())
		a.count++
	}

	top := make([]model.SubscriptionSummary, 0, len(merchants))
	for _, m := range merchants {
		a := index[m]
		top = append(top, model.SubscriptionSummary{
			Merchant:    m,
			AvgAmount:   a.sum.DivRound(decimal.NewFromInt(int64(a.count)), 2),
			Occurrences: a.count,
		})
	}

	sort.SliceStable(top, func(i, j int) bool {
		if c := top[i].AvgAmount.Cmp(top[j].AvgAmount); c != 0 {
			return c > 0
		}
		return top[i].Merchant < top[j].Merchant
	})
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

func sumByCodes(cats []model.CategorySummary, codes ...string) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cats {
		for _, code := range codes {
			if c.Code == code {
				total = total.Add(c.Amount)
			}
		}
	}
	return total
}

func categoryName(code, name string) string {
	if name != "" {
		return name
	}
	if code == model.UncategorizedCode {
		return model.Uncategorized.Name
	}
	if c, ok := model.LookupCategory(code); ok {
		return c.Name
	}
	return code
}

func insight(s model.MonthlySummary) string {
	top := "no category data"
	if len(s.Categories) > 0 {
		top = "most spent on " + s.Categories[0].Name
	}
	return fmt.Sprintf("Over the period you spent %s %s and received %s %s, %s.",
		s.TotalExpenses.StringFixed(2), model.Currency,
		s.TotalIncome.StringFixed(2), model.Currency,
		top)
}
