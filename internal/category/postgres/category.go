package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/category"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	categoryDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/category"
	"gorm.io/gorm"
)

var errCategoryNotFound = internal.NewNotFoundError("Category not found", internal.ErrCodeInvalidCategory)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*category.Category, error) {
	var rows []*categoryDatamodel.ExpenseCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, query.TranslateError(err, errCategoryNotFound)
	}
	out := make([]*category.Category, len(rows))
	for i, row := range rows {
		out[i] = category.FromDataModel(row)
	}
	return out, nil
}

// GetByName matches case-insensitively and returns nil, nil when absent.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	var row categoryDatamodel.ExpenseCategory
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, query.TranslateError(err, errCategoryNotFound)
	}
	return category.FromDataModel(&row), nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&categoryDatamodel.ExpenseCategory{}).Count(&n).Error
	return n, query.TranslateError(err, errCategoryNotFound)
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	row := category.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, errCategoryNotFound)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *CategoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result := r.db.WithContext(ctx).Model(&categoryDatamodel.ExpenseCategory{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return query.TranslateError(result.Error, errCategoryNotFound)
	}
	if result.RowsAffected == 0 {
		return errCategoryNotFound
	}
	return nil
}
