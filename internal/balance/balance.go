// Package balance derives staff balances from the advance and expense ledgers.
// Nothing is cached; every call re-reads the ledgers.
package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Totals are the raw sums a balance is derived from.
type Totals struct {
	Advances        decimal.Decimal `db:"total_advances"`
	SettledExpenses decimal.Decimal `db:"settled_expenses"`
	PendingExpenses decimal.Decimal `db:"pending_expenses"`
}

// StaffTotals are Totals for one staff member.
type StaffTotals struct {
	StaffID   int64  `db:"staff_id"`
	StaffCode string `db:"staff_code"`
	FullName  string `db:"full_name"`
	Totals
}

type RepositoryAPI interface {
	// StaffTotals sums the ledgers of one user; it returns
	// internal.ErrAccountNotFound when the user does not exist.
	StaffTotals(ctx context.Context, staffID int64) (*StaffTotals, error)
	AllStaffTotals(ctx context.Context) ([]*StaffTotals, error)
	AggregateTotals(ctx context.Context) (*Totals, error)
}

type Summary struct {
	TotalAdvances   decimal.Decimal `json:"total_advances"`
	SettledExpenses decimal.Decimal `json:"settled_expenses"`
	PendingExpenses decimal.Decimal `json:"pending_expenses"`
	Balance         decimal.Decimal `json:"balance"`
}

type StaffSummary struct {
	StaffID   int64  `json:"staff_id"`
	StaffCode string `json:"staff_code"`
	FullName  string `json:"full_name"`
	Summary
}

type OverviewResponse struct {
	Aggregate Summary         `json:"aggregate"`
	Staff     []*StaffSummary `json:"staff"`
}

// Summarize computes the balance: advances minus settled linked expenses.
// Pending expenses are reported but not netted.
func Summarize(t Totals) Summary {
	return Summary{
		TotalAdvances:   t.Advances,
		SettledExpenses: t.SettledExpenses,
		PendingExpenses: t.PendingExpenses,
		Balance:         t.Advances.Sub(t.SettledExpenses),
	}
}

func summarizeStaff(t *StaffTotals) *StaffSummary {
	return &StaffSummary{
		StaffID:   t.StaffID,
		StaffCode: t.StaffCode,
		FullName:  t.FullName,
		Summary:   Summarize(t.Totals),
	}
}
