package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/collection"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	"gorm.io/gorm"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) collection.RepositoryAPI {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Create(ctx context.Context, c *collection.Collection) error {
	row := collection.ToDataModel(c)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrCollectionNotFound)
	}
	*c = *collection.FromDataModel(row)
	return nil
}

func (r *CollectionRepository) GetByID(ctx context.Context, id int64) (*collection.Collection, error) {
	var row ledgerDatamodel.Collection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrCollectionNotFound)
	}
	return collection.FromDataModel(&row), nil
}

func (r *CollectionRepository) List(ctx context.Context, filter query.Filter) ([]*collection.Collection, error) {
	var rows []*ledgerDatamodel.Collection
	if err := r.db.WithContext(ctx).Scopes(query.Scope(filter, "staff_id")).Find(&rows).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrCollectionNotFound)
	}
	return collection.FromDataModelSlice(rows), nil
}

func (r *CollectionRepository) Update(ctx context.Context, c *collection.Collection) error {
	row := collection.ToDataModel(c)
	row.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(row).
		Select("staff_id", "date", "amount", "remarks", "updated_at").
		Updates(row)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrCollectionNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrCollectionNotFound
	}
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ledgerDatamodel.Collection{}, id)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrCollectionNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrCollectionNotFound
	}
	return nil
}
