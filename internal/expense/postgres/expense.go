package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	expenseDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-ledger/internal/expense"
	"gorm.io/gorm"
)

// mutableColumns are written by Update; settlement and submission state only
// change through their own conditional updates.
var mutableColumns = []string{
	"advance_id", "date", "category",
	"fare", "parking", "oil", "breakfast", "others", "total",
	"number_of_cases", "bill_urls", "remarks", "updated_at",
}

// ExpenseRepository implements expense.RepositoryAPI using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	row := expense.ToDataModel(exp)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrExpenseNotFound)
	}
	*exp = *expense.FromDataModel(row)
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrExpenseNotFound)
	}
	return expense.FromDataModel(&row), nil
}

func (r *ExpenseRepository) List(ctx context.Context, filter query.Filter) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Scopes(query.Scope(filter, "user_id")).
		Find(&rows).Error
	if err != nil {
		return nil, query.TranslateError(err, internal.ErrExpenseNotFound)
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) Update(ctx context.Context, exp *expense.Expense) error {
	row := expense.ToDataModel(exp)
	row.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(row).Select(mutableColumns).Updates(row)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrExpenseNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	exp.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrExpenseNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) MarkSettled(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND settlement_status = ?", id, expense.SettlementPending).
		Updates(map[string]interface{}{
			"settlement_status": expense.SettlementSettled,
			"settled_at":        at,
		})
	if result.Error != nil {
		return false, query.TranslateError(result.Error, internal.ErrExpenseNotFound)
	}
	return result.RowsAffected == 1, nil
}

func (r *ExpenseRepository) MarkSubmitted(ctx context.Context, id int64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND submitted_to_admin = ?", id, false).
		Updates(map[string]interface{}{
			"submitted_to_admin": true,
			"submitted_at":       at,
		})
	if result.Error != nil {
		return false, query.TranslateError(result.Error, internal.ErrExpenseNotFound)
	}
	return result.RowsAffected == 1, nil
}
