package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// Recurrence thresholds for subscription detection.
const (
	MinSubscriptionOccurrences = 3
	MinSubscriptionGapDays     = 20
	MaxSubscriptionGapDays     = 40
)

// subscriptionGroup is a set of expenses sharing a counterparty and a
// rounded amount.
type subscriptionGroup struct {
	key     string
	members []int // indexes into the batch
}

// DetectSubscriptions returns a copy of txs in which recurring expenses are
// flagged Subscription and Regular.
//
// Expenses are grouped by upper-cased counterparty and absolute amount
// rounded to whole euros. A group qualifies when it has at least three
// members and every gap between consecutive booking dates is 20 to 40 days
// inclusive. One bad gap disqualifies the whole group. Income is untouched,
// and the outcome does not depend on input order.
func DetectSubscriptions(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	copy(out, txs)

	for _, g := range groupRecurring(out) {
		if len(g.members) < MinSubscriptionOccurrences || !regularCadence(out, g.members) {
			continue
		}
		for _, idx := range g.members {
			out[idx].Subscription = true
			out[idx].Regular = true
		}
	}
	return out
}

func groupRecurring(txs []model.Transaction) []*subscriptionGroup {
	byKey := make(map[string]*subscriptionGroup)
	var groups []*subscriptionGroup
	for i, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		key := subscriptionKey(tx)
		g, ok := byKey[key]
		if !ok {
			g = &subscriptionGroup{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, i)
	}
	return groups
}

func subscriptionKey(tx model.Transaction) string {
	return strings.ToUpper(tx.Counterparty) + "|" + tx.Amount.Abs().Round(0).String()
}

// regularCadence sorts members by date and checks every consecutive gap.
func regularCadence(txs []model.Transaction, members []int) bool {
	dates := make([]time.Time, len(members))
	for i, idx := range members {
		dates[i] = txs[idx].BookedAt
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for i := 1; i < len(dates); i++ {
		gap := daysBetween(dates[i-1], dates[i])
		if gap < MinSubscriptionGapDays || gap > MaxSubscriptionGapDays {
			return false
		}
	}
	return true
}

// daysBetween counts calendar days from a to b in UTC.
func daysBetween(a, b time.Time) int {
	return int(civilDay(b).Sub(civilDay(a)).Hours() / 24)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
