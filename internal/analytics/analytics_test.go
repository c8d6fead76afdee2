package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(typ model.TransactionType, category model.ExpenseCategory, amount string, at time.Time) *model.Transaction {
	return &model.Transaction{
		ID:              uuid.New(),
		Type:            typ,
		Category:        category,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: at,
	}
}

func decEqual(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("decade")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestPeriodRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	week := PeriodRange(PeriodWeek, now, time.UTC)
	assert.Equal(t, now.Add(-7*24*time.Hour), week.Start)
	assert.Equal(t, now, week.End)

	month := PeriodRange(PeriodMonth, now, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), month.Start)

	year := PeriodRange(PeriodYear, now, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), year.Start)

	t.Run("month boundary follows the report timezone", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*60*60)
		// 22:00 UTC on Feb 29 is already March 1 at UTC+3
		late := time.Date(2024, 2, 29, 22, 0, 0, 0, time.UTC)
		r := PeriodRange(PeriodMonth, late, loc)
		assert.True(t, r.Start.Equal(time.Date(2024, 2, 29, 21, 0, 0, 0, time.UTC)))
	})
}

func TestSummarizeTransactions_MonthExample(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	r := PeriodRange(PeriodMonth, now, time.UTC)

	txns := []*model.Transaction{
		txn(model.TransactionTypeSale, "", "500", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)),
		txn(model.TransactionTypeExpense, model.CategoryFuel, "100", time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)),
		txn(model.TransactionTypeExpense, model.CategoryDriver, "50", time.Date(2024, 3, 6, 11, 0, 0, 0, time.UTC)),
		// outside the window
		txn(model.TransactionTypeSale, "", "1000", time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)),
	}

	report := SummarizeTransactions(txns, r, time.UTC)

	decEqual(t, "500", report.Summary.TotalIncome)
	decEqual(t, "150", report.Summary.TotalExpenses)
	decEqual(t, "350", report.Summary.NetProfit)
	require.Len(t, report.ExpenseBreakdown, 2)
	decEqual(t, "100", report.ExpenseBreakdown[model.CategoryFuel])
	decEqual(t, "50", report.ExpenseBreakdown[model.CategoryDriver])

	require.Len(t, report.DailyData, 2)
	assert.Equal(t, "2024-03-05", report.DailyData[0].Date)
	decEqual(t, "500", report.DailyData[0].Profit)
	assert.Equal(t, "2024-03-06", report.DailyData[1].Date)
	decEqual(t, "150", report.DailyData[1].Expenses)
	decEqual(t, "-150", report.DailyData[1].Profit)
}

func TestSummarizeTransactions_Reconciles(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := Range{Start: start, End: start.AddDate(0, 0, 30)}

	var txns []*model.Transaction
	amounts := []string{"10.25", "3.10", "99.99", "0", "42.42", "7.77", "1000.01"}
	for i, a := range amounts {
		at := start.Add(time.Duration(i*37) * time.Hour)
		switch i % 3 {
		case 0:
			txns = append(txns, txn(model.TransactionTypeSale, "", a, at))
		case 1:
			txns = append(txns, txn(model.TransactionTypeDeliveryFee, "", a, at))
		default:
			txns = append(txns, txn(model.TransactionTypeExpense, model.CategoryRepairs, a, at))
		}
	}

	report := SummarizeTransactions(txns, r, time.UTC)

	s := report.Summary
	assert.True(t, s.TotalIncome.Sub(s.TotalExpenses).Equal(s.NetProfit))

	dailyProfit := decimal.Zero
	dailyIncome := decimal.Zero
	for i, d := range report.DailyData {
		dailyProfit = dailyProfit.Add(d.Profit)
		dailyIncome = dailyIncome.Add(d.Income)
		if i > 0 {
			assert.Less(t, report.DailyData[i-1].Date, d.Date)
		}
	}
	assert.True(t, dailyProfit.Equal(s.NetProfit))
	assert.True(t, dailyIncome.Equal(s.TotalIncome))
	assert.True(t, report.ExpenseBreakdown[model.CategoryRepairs].Equal(s.TotalExpenses))
}

func TestSummarizeTransactions_DayBucketsUseLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	at := time.Date(2024, 3, 6, 2, 0, 0, 0, time.UTC) // March 5th at UTC-5
	r := Range{Start: at.Add(-time.Hour), End: at.Add(time.Hour)}

	report := SummarizeTransactions([]*model.Transaction{txn(model.TransactionTypeSale, "", "1", at)}, r, loc)

	require.Len(t, report.DailyData, 1)
	assert.Equal(t, "2024-03-05", report.DailyData[0].Date)
}

func TestSummarizeTransactions_Empty(t *testing.T) {
	report := SummarizeTransactions(nil, Range{}, nil)

	assert.True(t, report.Summary.NetProfit.IsZero())
	assert.NotNil(t, report.ExpenseBreakdown)
	assert.NotNil(t, report.DailyData)
	assert.Empty(t, report.DailyData)
}

func TestSummarizeDebtors(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	debtor := func(amount string, due time.Time, status model.DebtorStatus) *model.Debtor {
		return &model.Debtor{ID: uuid.New(), Amount: decimal.RequireFromString(amount), DueDate: due, Status: status}
	}

	var debtors []*model.Debtor
	for i := 7; i >= 1; i-- {
		debtors = append(debtors, debtor("10", now.AddDate(0, 0, -i), model.DebtorStatusUnpaid))
	}
	debtors = append(debtors,
		debtor("200", now.AddDate(0, 0, 3), model.DebtorStatusUnpaid),
		debtor("300", now.AddDate(0, 0, -30), model.DebtorStatusPaid),
	)

	report := SummarizeDebtors(debtors, now)

	decEqual(t, "270", report.Summary.TotalDebt)
	decEqual(t, "300", report.Summary.TotalPaid)
	decEqual(t, "70", report.Summary.OverdueDebt)
	assert.Equal(t, 7, report.Summary.OverdueCount)
	assert.Equal(t, 8, report.StatusBreakdown[model.DebtorStatusUnpaid])
	assert.Equal(t, 1, report.StatusBreakdown[model.DebtorStatusPaid])

	require.Len(t, report.OverdueDebtors, OverdueDebtorLimit)
	for i := 1; i < len(report.OverdueDebtors); i++ {
		assert.True(t, report.OverdueDebtors[i-1].DueDate.Before(report.OverdueDebtors[i].DueDate))
	}
	assert.Equal(t, 7, report.OverdueDebtors[0].DaysOverdue(now))
}

func TestSummarizeDebtors_Empty(t *testing.T) {
	report := SummarizeDebtors(nil, time.Now())
	assert.Equal(t, 0, report.StatusBreakdown[model.DebtorStatusPaid])
	assert.NotNil(t, report.OverdueDebtors)
	assert.True(t, report.Summary.TotalDebt.IsZero())
}
