package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pos_reports/internal/domain"
)

// AllActors disables the actor filter.
const AllActors = "all"

// NameResolver maps a stable actor id to its display name.
type NameResolver func(actorID string) (string, bool)

// Query selects the window and actor a report covers.
type Query struct {
	Period Period
	// Actor is a cashier id, or "" / AllActors for everyone.
	Actor string
	// Now anchors the period; zero means time.Now().
	Now time.Time
	// GroupBy applies to the expense side only.
	GroupBy ExpenseGrouping
	Names   NameResolver
}

func (q Query) start() time.Time {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	return q.Period.Start(now)
}

func (q Query) allActors() bool {
	actor := strings.TrimSpace(q.Actor)
	return actor == "" || actor == AllActors
}

func (q Query) actorLabel() string {
	if q.allActors() {
		return AllActors
	}
	return strings.TrimSpace(q.Actor)
}

// Summarize groups sales by cashier id within the query window and computes
// overall totals. Cashiers appear in the order they first occur in sales.
// Incomplete sales are skipped. A sale with an unrecognised payment method
// still counts towards totals and transaction counts but lands in no bucket.
func Summarize(sales []domain.Sale, expenses []domain.Expense, q Query) domain.SalesReport {
	start := q.start()
	rep := domain.SalesReport{
		Period:   string(q.Period),
		From:     start,
		Actor:    q.actorLabel(),
		PerActor: make([]domain.CashierSummary, 0),
	}

	index := map[string]int{}
	for _, sale := range sales {
		if !sale.Complete() || sale.CreatedAt.Before(start) {
			continue
		}
		if !q.allActors() && sale.CashierID != rep.Actor {
			continue
		}

		i, ok := index[sale.CashierID]
		if !ok {
			i = len(rep.PerActor)
			index[sale.CashierID] = i
			rep.PerActor = append(rep.PerActor, domain.CashierSummary{
				ActorID:    sale.CashierID,
				Name:       sale.CashierName,
				TotalSales: decimal.Zero,
				CashTotal:  decimal.Zero,
				MpesaTotal: decimal.Zero,
				CardTotal:  decimal.Zero,
			})
		}
		summary := &rep.PerActor[i]
		if summary.Name == "" {
			summary.Name = sale.CashierName
		}

		summary.TotalSales = summary.TotalSales.Add(sale.Total)
		summary.TransactionCount++
		switch sale.PaymentMethod {
		case domain.PaymentCash:
			summary.CashTotal = summary.CashTotal.Add(sale.Total)
		case domain.PaymentMpesa:
			summary.MpesaTotal = summary.MpesaTotal.Add(sale.Total)
		case domain.PaymentCard:
			summary.CardTotal = summary.CardTotal.Add(sale.Total)
		}

		rep.Totals.Sales = rep.Totals.Sales.Add(sale.Total)
		rep.Totals.TransactionCount++
		switch sale.PaymentMethod {
		case domain.PaymentCash:
			rep.Totals.Cash = rep.Totals.Cash.Add(sale.Total)
		case domain.PaymentMpesa:
			rep.Totals.Mpesa = rep.Totals.Mpesa.Add(sale.Total)
		case domain.PaymentCard:
			rep.Totals.Card = rep.Totals.Card.Add(sale.Total)
		}
	}

	if q.Names != nil {
		for i := range rep.PerActor {
			if name, ok := q.Names(rep.PerActor[i].ActorID); ok && name != "" {
				rep.PerActor[i].Name = name
			}
		}
	}

	rep.Totals.Expenses = SummarizeExpenses(expenses, q).Total
	return rep
}
