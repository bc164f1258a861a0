// Package transportpayment records payments users make to transport companies.
package transportpayment

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

const (
	CompanyExh      = "Exh"
	CompanyGenex    = "Genex"
	CompanyIQ       = "IQ"
	CompanyCanadian = "Canadian"
	CompanyOthers   = "Others"
)

var Companies = []string{CompanyExh, CompanyGenex, CompanyIQ, CompanyCanadian, CompanyOthers}

type TransportPayment struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Date      datetime.Date   `json:"date"`
	Company   string          `json:"company"`
	Amount    decimal.Decimal `json:"amount"`
	Remarks   string          `json:"remarks"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, p *TransportPayment) error
	GetByID(ctx context.Context, id int64) (*TransportPayment, error)
	List(ctx context.Context, filter query.Filter) ([]*TransportPayment, error)
	Update(ctx context.Context, p *TransportPayment) error
	Delete(ctx context.Context, id int64) error
}

func (p *TransportPayment) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", p.Date.Time).Required().NotFuture()
	v.Field("company", p.Company).OneOf(Companies, internal.ErrCodeInvalidCompany)
	v.Field("amount", p.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("remarks", p.Remarks).MaxLength(1000)
	return v.Validate()
}

func NewTransportPayment(userID int64, dto CreateTransportPaymentDTO) *TransportPayment {
	return &TransportPayment{
		UserID:  userID,
		Date:    dto.Date,
		Company: dto.Company,
		Amount:  dto.Amount.Round(2),
		Remarks: dto.Remarks,
	}
}

func ToDataModel(p *TransportPayment) *ledgerDatamodel.TransportPayment {
	return &ledgerDatamodel.TransportPayment{
		ID:        p.ID,
		UserID:    p.UserID,
		Date:      p.Date.Time,
		Company:   p.Company,
		Amount:    p.Amount,
		Remarks:   p.Remarks,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModel(p *ledgerDatamodel.TransportPayment) *TransportPayment {
	return &TransportPayment{
		ID:        p.ID,
		UserID:    p.UserID,
		Date:      datetime.NewDate(p.Date),
		Company:   p.Company,
		Amount:    p.Amount,
		Remarks:   p.Remarks,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*ledgerDatamodel.TransportPayment) []*TransportPayment {
	out := make([]*TransportPayment, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
