package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/balance"
	"github.com/jmoiron/sqlx"
)

const (
	settled = "settled"
	pending = "pending"
)

const staffTotalsSelect = `
SELECT
	u.id AS staff_id,
	COALESCE(u.staff_code, '') AS staff_code,
	u.full_name AS full_name,
	COALESCE((SELECT SUM(a.amount) FROM advances a WHERE a.staff_id = u.id), 0) AS total_advances,
	COALESCE((SELECT SUM(e.total) FROM expenses e JOIN advances a ON a.id = e.advance_id
		WHERE a.staff_id = u.id AND e.settlement_status = ?), 0) AS settled_expenses,
	COALESCE((SELECT SUM(e.total) FROM expenses e JOIN advances a ON a.id = e.advance_id
		WHERE a.staff_id = u.id AND e.settlement_status = ?), 0) AS pending_expenses
FROM users u`

const aggregateTotals = `
SELECT
	COALESCE((SELECT SUM(amount) FROM advances), 0) AS total_advances,
	COALESCE((SELECT SUM(e.total) FROM expenses e JOIN advances a ON a.id = e.advance_id
		WHERE e.settlement_status = ?), 0) AS settled_expenses,
	COALESCE((SELECT SUM(e.total) FROM expenses e JOIN advances a ON a.id = e.advance_id
		WHERE e.settlement_status = ?), 0) AS pending_expenses`

// BalanceRepository runs the balance sums with sqlx over the shared pool.
type BalanceRepository struct {
	db *sqlx.DB
}

func NewBalanceRepository(db *sqlx.DB) balance.RepositoryAPI {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) StaffTotals(ctx context.Context, staffID int64) (*balance.StaffTotals, error) {
	var row balance.StaffTotals
	q := r.db.Rebind(staffTotalsSelect + ` WHERE u.id = ?`)
	if err := r.db.GetContext(ctx, &row, q, settled, pending, staffID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, internal.NewBackendUnavailableError(err)
	}
	return &row, nil
}

func (r *BalanceRepository) AllStaffTotals(ctx context.Context) ([]*balance.StaffTotals, error) {
	rows := []*balance.StaffTotals{}
	q := r.db.Rebind(staffTotalsSelect + ` WHERE u.role = ? ORDER BY u.staff_code, u.id`)
	if err := r.db.SelectContext(ctx, &rows, q, settled, pending, internal.RoleStaff); err != nil {
		return nil, internal.NewBackendUnavailableError(err)
	}
	return rows, nil
}

func (r *BalanceRepository) AggregateTotals(ctx context.Context) (*balance.Totals, error) {
	var row balance.Totals
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(aggregateTotals), settled, pending); err != nil {
		return nil, internal.NewBackendUnavailableError(err)
	}
	return &row, nil
}
