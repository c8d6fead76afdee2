package analytics

import (
	"sort"
	"time"

	"github.com/nimasrn/bizledger/internal/model"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

type DailyPoint struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

type TransactionReport struct {
	Summary          Summary                                   `json:"summary"`
	ExpenseBreakdown map[model.ExpenseCategory]decimal.Decimal `json:"expenseBreakdown"`
	DailyData        []DailyPoint                              `json:"dailyData"`
	Range            Range                                     `json:"range"`
}

// SummarizeTransactions folds the transactions that fall inside r. Days are
// calendar dates of transactionDate in loc, emitted in ascending order.
func SummarizeTransactions(txns []*model.Transaction, r Range, loc *time.Location) TransactionReport {
	if loc == nil {
		loc = time.UTC
	}
	report := TransactionReport{
		Summary: Summary{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
		},
		ExpenseBreakdown: map[model.ExpenseCategory]decimal.Decimal{},
		DailyData:        []DailyPoint{},
		Range:            r,
	}

	days := map[string]*DailyPoint{}
	for _, t := range txns {
		if !r.Contains(t.TransactionDate) {
			continue
		}

		key := t.TransactionDate.In(loc).Format(dayLayout)
		day, ok := days[key]
		if !ok {
			day = &DailyPoint{Date: key, Income: decimal.Zero, Expenses: decimal.Zero}
			days[key] = day
		}

		if t.Type.IsIncome() {
			report.Summary.TotalIncome = report.Summary.TotalIncome.Add(t.Amount)
			day.Income = day.Income.Add(t.Amount)
			continue
		}
		report.Summary.TotalExpenses = report.Summary.TotalExpenses.Add(t.Amount)
		day.Expenses = day.Expenses.Add(t.Amount)
		if t.Category != "" {
			report.ExpenseBreakdown[t.Category] = report.ExpenseBreakdown[t.Category].Add(t.Amount)
		}
	}
	report.Summary.NetProfit = report.Summary.TotalIncome.Sub(report.Summary.TotalExpenses)

	for _, day := range days {
		day.Profit = day.Income.Sub(day.Expenses)
		report.DailyData = append(report.DailyData, *day)
	}
	sort.Slice(report.DailyData, func(i, j int) bool {
		return report.DailyData[i].Date < report.DailyData[j].Date
	})

	return report
}
