package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/adminexpense"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	"gorm.io/gorm"
)

type AdminExpenseRepository struct {
	db *gorm.DB
}

func NewAdminExpenseRepository(db *gorm.DB) adminexpense.RepositoryAPI {
	return &AdminExpenseRepository{db: db}
}

func (r *AdminExpenseRepository) Create(ctx context.Context, e *adminexpense.AdminExpense) error {
	row := adminexpense.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrAdminExpenseNotFound)
	}
	*e = *adminexpense.FromDataModel(row)
	return nil
}

func (r *AdminExpenseRepository) GetByID(ctx context.Context, id int64) (*adminexpense.AdminExpense, error) {
	var row ledgerDatamodel.AdminExpense
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAdminExpenseNotFound)
	}
	return adminexpense.FromDataModel(&row), nil
}

func (r *AdminExpenseRepository) List(ctx context.Context, filter query.Filter) ([]*adminexpense.AdminExpense, error) {
	var rows []*ledgerDatamodel.AdminExpense
	if err := r.db.WithContext(ctx).Scopes(query.Scope(filter, "")).Find(&rows).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAdminExpenseNotFound)
	}
	return adminexpense.FromDataModelSlice(rows), nil
}

func (r *AdminExpenseRepository) Update(ctx context.Context, e *adminexpense.AdminExpense) error {
	row := adminexpense.ToDataModel(e)
	row.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(row).
		Select("date", "category", "amount", "remarks", "bill_urls", "updated_at").
		Updates(row)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrAdminExpenseNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrAdminExpenseNotFound
	}
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *AdminExpenseRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ledgerDatamodel.AdminExpense{}, id)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrAdminExpenseNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrAdminExpenseNotFound
	}
	return nil
}
