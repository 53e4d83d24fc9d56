package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_reports/internal/domain"
)

func expense(id string, category domain.ExpenseCategory, amt, by, byID string, role domain.Role, at time.Time) domain.Expense {
	return domain.Expense{
		ID:            id,
		Category:      category,
		Description:   "test expense",
		Amount:        amount(amt),
		Date:          at,
		CreatedBy:     by,
		CreatedByID:   byID,
		CreatedByRole: role,
	}
}

func TestParseExpenseGrouping(t *testing.T) {
	g, err := ParseExpenseGrouping("")
	require.NoError(t, err)
	assert.Equal(t, GroupByName, g)

	g, err = ParseExpenseGrouping("Actor")
	require.NoError(t, err)
	assert.Equal(t, GroupByActor, g)

	_, err = ParseExpenseGrouping("role")
	assert.Error(t, err)
}

func TestSummarizeExpensesByNameOnlyCashiers(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "30", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("2", domain.CategoryRent, "5000", "Owner", "", domain.RoleOther, reportNow),
		expense("3", domain.CategoryTransport, "20", "Otieno", "C2", domain.RoleCashier, reportNow),
		expense("4", domain.CategoryTransport, "15", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("5", domain.CategoryTransport, "70", "Wanjiru", "C1", domain.RoleCashier, reportNow.AddDate(0, 0, -2)),
	}

	rep := SummarizeExpenses(expenses, Query{Period: PeriodToday, Now: reportNow})

	require.Len(t, rep.PerActor, 2)
	assert.Equal(t, "Wanjiru", rep.PerActor[0].Key)
	assertAmount(t, "45", rep.PerActor[0].Total)
	assert.Equal(t, 2, rep.PerActor[0].Count)
	assert.Equal(t, "Otieno", rep.PerActor[1].Key)
	assertAmount(t, "20", rep.PerActor[1].Total)
	assertAmount(t, "65", rep.Total)
	assert.Equal(t, 3, rep.Count)
	assert.Equal(t, "name", rep.GroupBy)
}

func TestSummarizeExpensesNameCollision(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "10", "Mary", "C1", domain.RoleCashier, reportNow),
		expense("2", domain.CategorySupplies, "20", "Mary", "C7", domain.RoleCashier, reportNow),
	}

	byName := SummarizeExpenses(expenses, Query{Period: PeriodAll, Now: reportNow})
	require.Len(t, byName.PerActor, 1)
	assertAmount(t, "30", byName.PerActor[0].Total)

	byActor := SummarizeExpenses(expenses, Query{Period: PeriodAll, Now: reportNow, GroupBy: GroupByActor})
	require.Len(t, byActor.PerActor, 2)
	assert.Equal(t, "C1", byActor.PerActor[0].Key)
	assert.Equal(t, "C7", byActor.PerActor[1].Key)
}

func TestSummarizeExpensesByActorSurvivesRename(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "10", "Mary", "C1", domain.RoleCashier, reportNow.Add(-time.Hour)),
		expense("2", domain.CategorySupplies, "5", "Mary W.", "C1", domain.RoleCashier, reportNow),
		expense("3", domain.CategorySupplies, "99", "Legacy", "", domain.RoleCashier, reportNow),
	}
	names := NamesFromRecords(nil, expenses)

	rep := SummarizeExpenses(expenses, Query{Period: PeriodToday, Now: reportNow, GroupBy: GroupByActor, Names: names})

	require.Len(t, rep.PerActor, 1)
	assert.Equal(t, "C1", rep.PerActor[0].Key)
	assert.Equal(t, "Mary W.", rep.PerActor[0].Name)
	assertAmount(t, "15", rep.Total)
}

func TestSummarizeExpensesActorFilter(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "10", "Wanjiru", "", domain.RoleCashier, reportNow),
		expense("2", domain.CategorySupplies, "20", "Otieno", "C2", domain.RoleCashier, reportNow),
		expense("3", domain.CategorySupplies, "40", "Wanjiru", "C1", domain.RoleCashier, reportNow),
	}
	sales := []domain.Sale{sale("s1", "C1", "Wanjiru", "1", domain.PaymentCash, reportNow)}
	names := NamesFromRecords(sales, nil)

	rep := SummarizeExpenses(expenses, Query{Period: PeriodToday, Actor: "C1", Now: reportNow, Names: names})

	require.Len(t, rep.PerActor, 1)
	assertAmount(t, "50", rep.Total)

	byName := SummarizeExpenses(expenses, Query{Period: PeriodToday, Actor: "Otieno", Now: reportNow})
	assertAmount(t, "20", byName.Total)
}

func TestSummarizeExpensesIDFilterIgnoresLiteralName(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "10", "C1", "", domain.RoleCashier, reportNow),
		expense("2", domain.CategorySupplies, "40", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("3", domain.CategorySupplies, "5", "Wanjiru", "", domain.RoleCashier, reportNow),
	}
	names := NamesFromRecords([]domain.Sale{sale("s1", "C1", "Wanjiru", "1", domain.PaymentCash, reportNow)}, nil)

	rep := SummarizeExpenses(expenses, Query{Period: PeriodToday, Actor: "C1", Now: reportNow, Names: names})

	require.Len(t, rep.PerActor, 1)
	assert.Equal(t, "Wanjiru", rep.PerActor[0].Key)
	assertAmount(t, "45", rep.Total)
	assert.Equal(t, 2, rep.Count)
}

func TestSummarizeExpensesSkipsIncomplete(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategorySupplies, "10", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("", domain.CategorySupplies, "10", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("3", domain.ExpenseCategory("bribes"), "10", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("4", domain.CategorySupplies, "-10", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("5", domain.CategorySupplies, "10", "", "C1", domain.RoleCashier, reportNow),
		expense("6", domain.CategorySupplies, "10", "Wanjiru", "C1", domain.RoleCashier, time.Time{}),
	}

	rep := SummarizeExpenses(expenses, Query{Period: PeriodAll, Now: reportNow})

	assertAmount(t, "10", rep.Total)
	assert.Equal(t, 1, rep.Count)
}

func TestSummarizeExpensesEmpty(t *testing.T) {
	rep := SummarizeExpenses(nil, Query{Period: PeriodMonth, Now: reportNow})

	assert.NotNil(t, rep.PerActor)
	assert.Empty(t, rep.PerActor)
	assert.True(t, rep.Total.IsZero())
}

func TestExpensesByCategory(t *testing.T) {
	expenses := []domain.Expense{
		expense("1", domain.CategoryTransport, "20", "Otieno", "C2", domain.RoleCashier, reportNow),
		expense("2", domain.CategoryRent, "5000", "Owner", "", domain.RoleOther, reportNow),
		expense("3", domain.CategoryTransport, "15.50", "Wanjiru", "C1", domain.RoleCashier, reportNow),
		expense("4", domain.CategoryUtilities, "800", "Owner", "", domain.RoleOther, reportNow.AddDate(0, -1, 0)),
	}

	rep := ExpensesByCategory(expenses, Query{Period: PeriodMonth, Now: reportNow})

	require.Len(t, rep.Categories, 2)
	assert.Equal(t, domain.CategoryRent, rep.Categories[0].Category)
	assertAmount(t, "5000", rep.Categories[0].Total)
	assert.Equal(t, domain.CategoryTransport, rep.Categories[1].Category)
	assertAmount(t, "35.50", rep.Categories[1].Total)
	assert.Equal(t, 2, rep.Categories[1].Count)
	assertAmount(t, "5035.50", rep.Total)
}

func TestNamesFromRecordsKeepsLatest(t *testing.T) {
	sales := []domain.Sale{
		sale("1", "C1", "Old Name", "1", domain.PaymentCash, reportNow.Add(-time.Hour)),
		sale("2", "C1", "New Name", "1", domain.PaymentCash, reportNow),
		sale("3", "C1", "Older", "1", domain.PaymentCash, reportNow.Add(-2*time.Hour)),
	}

	names := NamesFromRecords(sales, nil)

	name, ok := names("C1")
	assert.True(t, ok)
	assert.Equal(t, "New Name", name)
	_, ok = names("C404")
	assert.False(t, ok)
}

func TestNamesFromRecordsFarFutureTimestamp(t *testing.T) {
	farFuture := time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		sale("1", "C1", "Corrupted Clock", "1", domain.PaymentCash, farFuture),
		sale("2", "C1", "Today", "1", domain.PaymentCash, reportNow),
	}

	name, ok := NamesFromRecords(sales, nil)("C1")

	assert.True(t, ok)
	assert.Equal(t, "Corrupted Clock", name)
}
