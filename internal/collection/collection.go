// Package collection records money an admin collects back from staff.
package collection

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	"github.com/shopspring/decimal"
)

type Collection struct {
	ID        int64           `json:"id"`
	StaffID   int64           `json:"staff_id"`
	Date      datetime.Date   `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Remarks   string          `json:"remarks"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id int64) (*Collection, error)
	List(ctx context.Context, filter query.Filter) ([]*Collection, error)
	Update(ctx context.Context, c *Collection) error
	Delete(ctx context.Context, id int64) error
}

func (c *Collection) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("staff_id", c.StaffID).Required().MinInt(1, internal.ErrCodeInvalidStaff)
	v.Field("date", c.Date.Time).Required().NotFuture()
	v.Field("amount", c.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("remarks", c.Remarks).MaxLength(1000)
	return v.Validate()
}

func NewCollection(dto CreateCollectionDTO) *Collection {
	return &Collection{
		StaffID: dto.StaffID,
		Date:    dto.Date,
		Amount:  dto.Amount.Round(2),
		Remarks: dto.Remarks,
	}
}

func ToDataModel(c *Collection) *ledgerDatamodel.Collection {
	return &ledgerDatamodel.Collection{
		ID:        c.ID,
		StaffID:   c.StaffID,
		Date:      c.Date.Time,
		Amount:    c.Amount,
		Remarks:   c.Remarks,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *ledgerDatamodel.Collection) *Collection {
	return &Collection{
		ID:        c.ID,
		StaffID:   c.StaffID,
		Date:      datetime.NewDate(c.Date),
		Amount:    c.Amount,
		Remarks:   c.Remarks,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*ledgerDatamodel.Collection) []*Collection {
	out := make([]*Collection, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
