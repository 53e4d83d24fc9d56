package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pos_reports/internal/domain"
)

// ExpenseGrouping selects the key cashier expenses are grouped under.
type ExpenseGrouping string

const (
	// GroupByName groups on the free-text createdBy field. Two cashiers with
	// the same name collapse into one row; a rename splits one cashier in two.
	GroupByName ExpenseGrouping = "name"
	// GroupByActor groups on createdById and resolves display names separately.
	GroupByActor ExpenseGrouping = "actor"
)

// ParseExpenseGrouping maps request input to a grouping. Empty means by name.
func ParseExpenseGrouping(raw string) (ExpenseGrouping, error) {
	switch g := ExpenseGrouping(strings.ToLower(strings.TrimSpace(raw))); g {
	case "":
		return GroupByName, nil
	case GroupByName, GroupByActor:
		return g, nil
	default:
		return "", fmt.Errorf("unknown expense grouping %q", raw)
	}
}

// SummarizeExpenses totals cashier-role expenses per actor within the query
// window, in order of first appearance.
func SummarizeExpenses(expenses []domain.Expense, q Query) domain.ExpenseReport {
	groupBy := q.GroupBy
	if groupBy == "" {
		groupBy = GroupByName
	}
	start := q.start()
	rep := domain.ExpenseReport{
		Period:   string(q.Period),
		From:     start,
		Actor:    q.actorLabel(),
		GroupBy:  string(groupBy),
		PerActor: make([]domain.ExpenseSummary, 0),
	}

	var filterName string
	if !q.allActors() && q.Names != nil {
		filterName, _ = q.Names(rep.Actor)
	}

	index := map[string]int{}
	for _, e := range expenses {
		if !e.Complete() || e.CreatedByRole != domain.RoleCashier || e.Date.Before(start) {
			continue
		}
		if groupBy == GroupByActor && strings.TrimSpace(e.CreatedByID) == "" {
			continue
		}
		if !q.allActors() && !matchesActor(e, rep.Actor, filterName) {
			continue
		}

		key, name := e.CreatedBy, e.CreatedBy
		if groupBy == GroupByActor {
			key = e.CreatedByID
		}

		i, ok := index[key]
		if !ok {
			i = len(rep.PerActor)
			index[key] = i
			rep.PerActor = append(rep.PerActor, domain.ExpenseSummary{Key: key, Name: name, Total: decimal.Zero})
		}
		rep.PerActor[i].Total = rep.PerActor[i].Total.Add(e.Amount)
		rep.PerActor[i].Count++

		rep.Total = rep.Total.Add(e.Amount)
		rep.Count++
	}

	if groupBy == GroupByActor && q.Names != nil {
		for i := range rep.PerActor {
			if name, ok := q.Names(rep.PerActor[i].Key); ok && name != "" {
				rep.PerActor[i].Name = name
			}
		}
	}
	return rep
}

// matchesActor compares against createdBy using the resolved name when the
// filter is a known actor id, and the raw filter text otherwise.
func matchesActor(e domain.Expense, actor string, actorName string) bool {
	if e.CreatedByID != "" && e.CreatedByID == actor {
		return true
	}
	if actorName != "" {
		return e.CreatedBy == actorName
	}
	return e.CreatedBy == actor
}

// ExpensesByCategory totals expenses from every role per category within the
// query window. Categories keep the fixed display order; empty ones are left out.
func ExpensesByCategory(expenses []domain.Expense, q Query) domain.CategoryReport {
	start := q.start()
	rep := domain.CategoryReport{
		Period:     string(q.Period),
		From:       start,
		Categories: make([]domain.CategoryTotal, 0, len(domain.ExpenseCategories)),
	}

	byCategory := map[domain.ExpenseCategory]*domain.CategoryTotal{}
	for _, e := range expenses {
		if !e.Complete() || e.Date.Before(start) {
			continue
		}
		row := byCategory[e.Category]
		if row == nil {
			row = &domain.CategoryTotal{Category: e.Category, Total: decimal.Zero}
			byCategory[e.Category] = row
		}
		row.Total = row.Total.Add(e.Amount)
		row.Count++
		rep.Total = rep.Total.Add(e.Amount)
	}

	for _, category := range domain.ExpenseCategories {
		if row := byCategory[category]; row != nil {
			rep.Categories = append(rep.Categories, *row)
		}
	}
	return rep
}

// NamesFromRecords builds a resolver from the latest display name recorded for
// each actor id across sales and expenses.
func NamesFromRecords(sales []domain.Sale, expenses []domain.Expense) NameResolver {
	names := map[string]string{}
	latest := map[string]time.Time{}
	remember := func(id, name string, at time.Time) {
		if id == "" || name == "" {
			return
		}
		if seen, ok := latest[id]; ok && seen.After(at) {
			return
		}
		latest[id] = at
		names[id] = name
	}
	for _, s := range sales {
		remember(s.CashierID, s.CashierName, s.CreatedAt)
	}
	for _, e := range expenses {
		remember(e.CreatedByID, e.CreatedBy, e.Date)
	}
	return func(actorID string) (string, bool) {
		name, ok := names[actorID]
		return name, ok
	}
}
