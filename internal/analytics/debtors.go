package analytics

import (
	"sort"
	"time"

	"github.com/nimasrn/bizledger/internal/model"
	"github.com/shopspring/decimal"
)

// OverdueDebtorLimit caps the overdue list in the debtor report.
const OverdueDebtorLimit = 5

type DebtorSummary struct {
	TotalDebt    decimal.Decimal `json:"totalDebt"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	OverdueDebt  decimal.Decimal `json:"overdueDebt"`
	OverdueCount int             `json:"overdueCount"`
}

type DebtorReport struct {
	Summary         DebtorSummary              `json:"summary"`
	StatusBreakdown map[model.DebtorStatus]int `json:"statusBreakdown"`
	OverdueDebtors  []*model.Debtor            `json:"overdueDebtors"`
}

// SummarizeDebtors evaluates overdue state against now. OverdueDebtors holds
// the earliest-due overdue records, at most OverdueDebtorLimit of them.
func SummarizeDebtors(debtors []*model.Debtor, now time.Time) DebtorReport {
	report := DebtorReport{
		Summary: DebtorSummary{
			TotalDebt:   decimal.Zero,
			TotalPaid:   decimal.Zero,
			OverdueDebt: decimal.Zero,
		},
		StatusBreakdown: map[model.DebtorStatus]int{
			model.DebtorStatusUnpaid: 0,
			model.DebtorStatusPaid:   0,
		},
		OverdueDebtors: []*model.Debtor{},
	}

	var overdue []*model.Debtor
	for _, d := range debtors {
		report.StatusBreakdown[d.Status]++

		switch d.Status {
		case model.DebtorStatusPaid:
			report.Summary.TotalPaid = report.Summary.TotalPaid.Add(d.Amount)
		case model.DebtorStatusUnpaid:
			report.Summary.TotalDebt = report.Summary.TotalDebt.Add(d.Amount)
		}

		if d.IsOverdue(now) {
			report.Summary.OverdueDebt = report.Summary.OverdueDebt.Add(d.Amount)
			report.Summary.OverdueCount++
			overdue = append(overdue, d)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(overdue[j].DueDate)
	})
	if len(overdue) > OverdueDebtorLimit {
		overdue = overdue[:OverdueDebtorLimit]
	}
	report.OverdueDebtors = append(report.OverdueDebtors, overdue...)

	return report
}
