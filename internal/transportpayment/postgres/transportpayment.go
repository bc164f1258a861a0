package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	"github.com/frahmantamala/expense-ledger/internal/transportpayment"
	"gorm.io/gorm"
)

type TransportPaymentRepository struct {
	db *gorm.DB
}

func NewTransportPaymentRepository(db *gorm.DB) transportpayment.RepositoryAPI {
	return &TransportPaymentRepository{db: db}
}

func (r *TransportPaymentRepository) Create(ctx context.Context, p *transportpayment.TransportPayment) error {
	row := transportpayment.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrTransportPaymentNotFound)
	}
	*p = *transportpayment.FromDataModel(row)
	return nil
}

func (r *TransportPaymentRepository) GetByID(ctx context.Context, id int64) (*transportpayment.TransportPayment, error) {
	var row ledgerDatamodel.TransportPayment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrTransportPaymentNotFound)
	}
	return transportpayment.FromDataModel(&row), nil
}

func (r *TransportPaymentRepository) List(ctx context.Context, filter query.Filter) ([]*transportpayment.TransportPayment, error) {
	var rows []*ledgerDatamodel.TransportPayment
	if err := r.db.WithContext(ctx).Scopes(query.Scope(filter, "user_id")).Find(&rows).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrTransportPaymentNotFound)
	}
	return transportpayment.FromDataModelSlice(rows), nil
}

func (r *TransportPaymentRepository) Update(ctx context.Context, p *transportpayment.TransportPayment) error {
	row := transportpayment.ToDataModel(p)
	row.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(row).
		Select("date", "company", "amount", "remarks", "updated_at").
		Updates(row)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrTransportPaymentNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrTransportPaymentNotFound
	}
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *TransportPaymentRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&ledgerDatamodel.TransportPayment{}, id)
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrTransportPaymentNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrTransportPaymentNotFound
	}
	return nil
}
