// Package classify assigns a category to each transaction with ordered keyword rules.
package classify

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/stmtburn/internal/model"
)

// Classifier holds a frozen copy of the rule tables. It is safe for
// concurrent use.
type Classifier struct {
	income  []Rule
	expense []Rule
}

var defaultClassifier = mustNew()

func mustNew() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the classifier built from the built-in rules only.
func Default() *Classifier {
	return defaultClassifier
}

// New builds a classifier from the built-in rules. Extra rules apply to
// expenses and are tried after the built-in expense rules, before the
// model.Other fallback.
func New(extra ...Rule) (*Classifier, error) {
	c := &Classifier{
		income:  cloneRules(IncomeRules),
		expense: cloneRules(ExpenseRules),
	}
	for i, r := range extra {
		if r.Category.Code == "" {
			return nil, fmt.Errorf("rule %d: empty category", i)
		}
		nr := normalizeRule(r)
		if len(nr.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i, r.Category.Code)
		}
		c.expense = append(c.expense, nr)
	}
	return c, nil
}

// Classify returns the category for tx. It never fails: unmatched income is
// model.IncomeOther and unmatched expenses are model.Other.
func (c *Classifier) Classify(tx model.Transaction) model.Category {
	text := strings.ToLower(tx.Description + " " + tx.Counterparty)

	if tx.Amount.IsPositive() {
		return firstMatch(c.income, text, model.IncomeOther)
	}
	return firstMatch(c.expense, text, model.Other)
}

// Annotate returns a copy of txs with category code and name set.
func (c *Classifier) Annotate(txs []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.WithCategory(c.Classify(tx))
	}
	return out
}

// Rules returns the number of income and expense rules in effect.
func (c *Classifier) Rules() (income, expense int) {
	return len(c.income), len(c.expense)
}

func firstMatch(rules []Rule, text string, fallback model.Category) model.Category {
	for _, r := range rules {
		if r.matches(text) {
			return r.Category
		}
	}
	return fallback
}

func cloneRules(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = normalizeRule(r)
	}
	return out
}

// normalizeRule copies r with lowercased, non-empty keywords.
func normalizeRule(r Rule) Rule {
	kws := make([]string, 0, len(r.Keywords))
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		kws = append(kws, strings.ToLower(k))
	}
	return Rule{Category: r.Category, Keywords: kws}
}
