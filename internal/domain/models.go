package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

// Known reports whether m is one of the three bucketed payment methods.
func (m PaymentMethod) Known() bool {
	switch m {
	case PaymentCash, PaymentMpesa, PaymentCard:
		return true
	}
	return false
}

type Role string

const (
	RoleCashier Role = "cashier"
	RoleOther   Role = "other"
)

type ExpenseCategory string

const (
	CategoryRent        ExpenseCategory = "rent"
	CategoryUtilities   ExpenseCategory = "utilities"
	CategorySalaries    ExpenseCategory = "salaries"
	CategorySupplies    ExpenseCategory = "supplies"
	CategoryTransport   ExpenseCategory = "transport"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

// ExpenseCategories lists the fixed category set in display order.
var ExpenseCategories = []ExpenseCategory{
	CategoryRent,
	CategoryUtilities,
	CategorySalaries,
	CategorySupplies,
	CategoryTransport,
	CategoryMaintenance,
	CategoryOther,
}

func (c ExpenseCategory) Known() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type SaleItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Sale is a completed checkout. It is never modified after it is stored.
type Sale struct {
	ID            string          `json:"id"`
	CashierID     string          `json:"cashierId"`
	CashierName   string          `json:"cashierName"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	Items         []SaleItem      `json:"items"`

	// noTotal is set when a decoded record has no usable total.
	noTotal bool
}

type saleRecord Sale

// UnmarshalJSON decodes a stored sale, remembering whether total was absent
// or null.
func (s *Sale) UnmarshalJSON(data []byte) error {
	aux := struct {
		*saleRecord
		Total decimal.NullDecimal `json:"total"`
	}{saleRecord: (*saleRecord)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Total = aux.Total.Decimal
	s.noTotal = !aux.Total.Valid
	return nil
}

// Complete reports whether the sale carries every field aggregation relies on.
func (s Sale) Complete() bool {
	if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.CashierID) == "" {
		return false
	}
	if s.PaymentMethod == "" || s.CreatedAt.IsZero() || s.noTotal {
		return false
	}
	return !s.Total.IsNegative()
}

type Expense struct {
	ID            string          `json:"id"`
	Category      ExpenseCategory `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"createdBy"`
	CreatedByID   string          `json:"createdById,omitempty"`
	CreatedByRole Role            `json:"createdByRole"`

	// noAmount is set when a decoded record has no usable amount.
	noAmount bool
}

type expenseRecord Expense

// UnmarshalJSON decodes a stored expense, remembering whether amount was
// absent or null.
func (e *Expense) UnmarshalJSON(data []byte) error {
	aux := struct {
		*expenseRecord
		Amount decimal.NullDecimal `json:"amount"`
	}{expenseRecord: (*expenseRecord)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Amount = aux.Amount.Decimal
	e.noAmount = !aux.Amount.Valid
	return nil
}

// Complete reports whether the expense can be aggregated. CreatedByID is
// optional here; grouping by actor id checks it separately.
func (e Expense) Complete() bool {
	if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.CreatedBy) == "" {
		return false
	}
	if e.Date.IsZero() || !e.Category.Known() || e.noAmount {
		return false
	}
	return !e.Amount.IsNegative()
}

// CashierSummary is derived per report and never persisted.
type CashierSummary struct {
	ActorID          string          `json:"actorId"`
	Name             string          `json:"name"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	CashTotal        decimal.Decimal `json:"cashTotal"`
	MpesaTotal       decimal.Decimal `json:"mpesaTotal"`
	CardTotal        decimal.Decimal `json:"cardTotal"`
	TransactionCount int             `json:"transactionCount"`
}

type Totals struct {
	Sales            decimal.Decimal `json:"sales"`
	Cash             decimal.Decimal `json:"cash"`
	Mpesa            decimal.Decimal `json:"mpesa"`
	Card             decimal.Decimal `json:"card"`
	TransactionCount int             `json:"transactionCount"`
	Expenses         decimal.Decimal `json:"expenses"`
}

type SalesReport struct {
	Period   string           `json:"period"`
	From     time.Time        `json:"from"`
	Actor    string           `json:"actor"`
	PerActor []CashierSummary `json:"perActor"`
	Totals   Totals           `json:"totals"`
}

type ExpenseSummary struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type ExpenseReport struct {
	Period   string           `json:"period"`
	From     time.Time        `json:"from"`
	Actor    string           `json:"actor"`
	GroupBy  string           `json:"groupBy"`
	PerActor []ExpenseSummary `json:"perActor"`
	Total    decimal.Decimal  `json:"total"`
	Count    int              `json:"count"`
}

type CategoryTotal struct {
	Category ExpenseCategory `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type CategoryReport struct {
	Period     string          `json:"period"`
	From       time.Time       `json:"from"`
	Categories []CategoryTotal `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}
