package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/advance"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	advanceDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/advance"
	expenseDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/expense"
	"gorm.io/gorm"
)

// AdvanceRepository implements advance.RepositoryAPI using GORM
type AdvanceRepository struct {
	db *gorm.DB
}

func NewAdvanceRepository(db *gorm.DB) advance.RepositoryAPI {
	return &AdvanceRepository{db: db}
}

func (r *AdvanceRepository) Create(ctx context.Context, a *advance.Advance) error {
	row := advance.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrAdvanceNotFound)
	}
	*a = *advance.FromDataModel(row)
	return nil
}

func (r *AdvanceRepository) GetByID(ctx context.Context, id int64) (*advance.Advance, error) {
	var row advanceDatamodel.Advance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAdvanceNotFound)
	}
	return advance.FromDataModel(&row), nil
}

func (r *AdvanceRepository) List(ctx context.Context, filter query.Filter) ([]*advance.Advance, error) {
	var rows []*advanceDatamodel.Advance
	err := r.db.WithContext(ctx).
		Scopes(query.Scope(filter, "staff_id")).
		Find(&rows).Error
	if err != nil {
		return nil, query.TranslateError(err, internal.ErrAdvanceNotFound)
	}
	return advance.FromDataModelSlice(rows), nil
}

func (r *AdvanceRepository) Update(ctx context.Context, a *advance.Advance) error {
	result := r.db.WithContext(ctx).Model(&advanceDatamodel.Advance{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"staff_id":    a.StaffID,
			"amount":      a.Amount,
			"date":        a.Date.Time,
			"description": a.Description,
		})
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrAdvanceNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrAdvanceNotFound
	}
	return nil
}

func (r *AdvanceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&advanceDatamodel.Advance{}, id)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrAdvanceNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrAdvanceNotFound
	}
	return nil
}

// MarkSettled only touches rows still pending, so concurrent settles write once.
func (r *AdvanceRepository) MarkSettled(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&advanceDatamodel.Advance{}).
		Where("id = ? AND settlement_status = ?", id, advance.SettlementPending).
		Updates(map[string]interface{}{
			"status":            advance.StatusSettled,
			"settlement_status": advance.SettlementSettled,
			"settled_at":        at,
		})
	if result.Error != nil {
		return false, query.TranslateError(result.Error, internal.ErrAdvanceNotFound)
	}
	return result.RowsAffected == 1, nil
}

func (r *AdvanceRepository) CountLinkedExpenses(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).
		Where("advance_id = ?", id).
		Count(&n).Error
	return n, query.TranslateError(err, internal.ErrAdvanceNotFound)
}
