package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos_reports/internal/domain"
	"pos_reports/internal/report"
)

// ErrInvalidSale wraps every validation failure on a new sale.
var ErrInvalidSale = errors.New("invalid sale")

// ErrInvalidExpense wraps every validation failure on a new expense.
var ErrInvalidExpense = errors.New("invalid expense")

// Service provides sales, expense and reporting operations on a Storage backend.
type Service struct {
	storage Storage
	users   UserDirectory
	logger  *zap.Logger
	now     func() time.Time
}

// SalesMetadata summarises a sales search.
type SalesMetadata struct {
	Quantity    int             `json:"quantity"`
	Cash        int             `json:"cash"`
	Mpesa       int             `json:"mpesa"`
	Card        int             `json:"card"`
	Other       int             `json:"other"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSale is the input for CreateSale.
type NewSale struct {
	CashierID     string               `json:"cashier_id"`
	CashierName   string               `json:"cashier_name"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Items         []domain.SaleItem    `json:"items"`
}

// NewExpense is the input for CreateExpense. A nil Date means now.
type NewExpense struct {
	Category      domain.ExpenseCategory `json:"category"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Date          *time.Time             `json:"date,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	CreatedByID   string                 `json:"created_by_id"`
	CreatedByRole domain.Role            `json:"created_by_role"`
}

// NewService creates a new Service. users may be nil, in which case cashiers
// are not checked against a directory.
func NewService(storage Storage, logger *zap.Logger, users UserDirectory) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock replaces the time source. Reports resolve periods in the location
// of the returned time.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateSale validates and records a sale. The total is computed from the items.
func (s *Service) CreateSale(ctx context.Context, in NewSale) (*domain.Sale, error) {
	in.CashierID = strings.TrimSpace(in.CashierID)
	if in.CashierID == "" {
		return nil, fmt.Errorf("%w: cashier_id is required", ErrInvalidSale)
	}
	if !in.PaymentMethod.Known() {
		return nil, fmt.Errorf("%w: payment method must be cash, mpesa or card", ErrInvalidSale)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidSale)
	}

	total := decimal.Zero
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be greater than zero", ErrInvalidSale, i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d unit price must not be negative", ErrInvalidSale, i)
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if s.users != nil {
		user, err := s.users.Lookup(ctx, in.CashierID)
		if err != nil {
			s.logger.Error("error validating cashier", zap.String("cashier_id", in.CashierID), zap.Error(err))
			if errors.Is(err, ErrUserNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("error validating cashier: %w", err)
		}
		if strings.TrimSpace(in.CashierName) == "" {
			in.CashierName = user.Name
		}
	}

	sale := domain.Sale{
		ID:            uuid.NewString(),
		CashierID:     in.CashierID,
		CashierName:   strings.TrimSpace(in.CashierName),
		Total:         total,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     s.now(),
		Items:         in.Items,
	}

	if err := s.storage.AddSale(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID),
		zap.String("cashier_id", sale.CashierID),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.String("total", sale.Total.String()),
	)
	return &sale, nil
}

// GetSale returns ErrNotFound when no sale has the given id.
func (s *Service) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.storage.Read(ctx, id)
}

// SearchSales filters sales by cashier and payment method. Empty filters match all.
func (s *Service) SearchSales(ctx context.Context, cashierID, paymentMethod string) ([]domain.Sale, SalesMetadata, error) {
	method := domain.PaymentMethod(paymentMethod)
	if method != "" && !method.Known() {
		s.logger.Warn("invalid payment method filter provided", zap.String("payment_method", paymentMethod))
		return nil, SalesMetadata{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidSale, paymentMethod)
	}

	allSales, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, SalesMetadata{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}

	filtered := make([]domain.Sale, 0)
	metadata := SalesMetadata{TotalAmount: decimal.Zero}

	for _, sale := range allSales {
		if cashierID != "" && sale.CashierID != cashierID {
			continue
		}
		if method != "" && sale.PaymentMethod != method {
			continue
		}

		filtered = append(filtered, sale)

		metadata.Quantity++
		metadata.TotalAmount = metadata.TotalAmount.Add(sale.Total)
		switch sale.PaymentMethod {
		case domain.PaymentCash:
			metadata.Cash++
		case domain.PaymentMpesa:
			metadata.Mpesa++
		case domain.PaymentCard:
			metadata.Card++
		default:
			metadata.Other++
		}
	}

	s.logger.Info("sales search completed",
		zap.String("cashier_filter", cashierID),
		zap.String("payment_method_filter", paymentMethod),
		zap.Int("results_count", len(filtered)),
	)

	return filtered, metadata, nil
}

// CreateExpense validates and records an expense.
func (s *Service) CreateExpense(ctx context.Context, in NewExpense) (*domain.Expense, error) {
	if !in.Category.Known() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, in.Category)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidExpense)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidExpense)
	}
	if strings.TrimSpace(in.CreatedBy) == "" {
		return nil, fmt.Errorf("%w: created_by is required", ErrInvalidExpense)
	}
	switch in.CreatedByRole {
	case domain.RoleCashier, domain.RoleOther:
	case "":
		in.CreatedByRole = domain.RoleOther
	default:
		return nil, fmt.Errorf("%w: role must be cashier or other", ErrInvalidExpense)
	}

	date := s.now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	expense := domain.Expense{
		ID:            uuid.NewString(),
		Category:      in.Category,
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		Date:          date,
		CreatedBy:     strings.TrimSpace(in.CreatedBy),
		CreatedByID:   strings.TrimSpace(in.CreatedByID),
		CreatedByRole: in.CreatedByRole,
	}

	if err := s.storage.AddExpense(ctx, expense); err != nil {
		s.logger.Error("failed to save expense", zap.String("expense_id", expense.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.logger.Info("expense created",
		zap.String("expense_id", expense.ID),
		zap.String("category", string(expense.Category)),
		zap.String("amount", expense.Amount.String()),
	)
	return &expense, nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	expenses, err := s.storage.Expenses(ctx)
	if err != nil {
		s.logger.Error("failed to get expenses from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}
	return expenses, nil
}

// CashierReport aggregates sales per cashier for the period. It is recomputed
// from the stored records on every call.
func (s *Service) CashierReport(ctx context.Context, period report.Period, actor string) (domain.SalesReport, error) {
	sales, expenses, err := s.snapshot(ctx)
	if err != nil {
		return domain.SalesReport{}, err
	}
	rep := report.Summarize(sales, expenses, report.Query{
		Period: period,
		Actor:  actor,
		Now:    s.now(),
		Names:  report.NamesFromRecords(sales, expenses),
	})
	s.logger.Debug("cashier report computed",
		zap.String("period", string(period)),
		zap.String("actor", rep.Actor),
		zap.Int("actors", len(rep.PerActor)),
		zap.Int("transactions", rep.Totals.TransactionCount),
	)
	return rep, nil
}

// ExpenseReport aggregates cashier expenses per actor for the period.
func (s *Service) ExpenseReport(ctx context.Context, period report.Period, actor string, groupBy report.ExpenseGrouping) (domain.ExpenseReport, error) {
	sales, expenses, err := s.snapshot(ctx)
	if err != nil {
		return domain.ExpenseReport{}, err
	}
	return report.SummarizeExpenses(expenses, report.Query{
		Period:  period,
		Actor:   actor,
		Now:     s.now(),
		GroupBy: groupBy,
		Names:   report.NamesFromRecords(sales, expenses),
	}), nil
}

// ExpenseCategoryReport totals all expenses per category for the period.
func (s *Service) ExpenseCategoryReport(ctx context.Context, period report.Period) (domain.CategoryReport, error) {
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return domain.CategoryReport{}, err
	}
	return report.ExpensesByCategory(expenses, report.Query{Period: period, Now: s.now()}), nil
}

func (s *Service) snapshot(ctx context.Context) ([]domain.Sale, []domain.Expense, error) {
	sales, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	expenses, err := s.ListExpenses(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sales, expenses, nil
}
