package advance

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	advanceDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/advance"
	"github.com/shopspring/decimal"
)

const (
	StatusActive  = "active"
	StatusSettled = "settled"

	SettlementPending = "pending"
	SettlementSettled = "settled"
)

type Advance struct {
	ID               int64           `json:"id"`
	StaffID          int64           `json:"staff_id"`
	Amount           decimal.Decimal `json:"amount"`
	Date             datetime.Date   `json:"date"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	SettlementStatus string          `json:"settlement_status"`
	SettledAt        *time.Time      `json:"settled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// RepositoryAPI is the storage contract of the advance ledger.
type RepositoryAPI interface {
	Create(ctx context.Context, a *Advance) error
	GetByID(ctx context.Context, id int64) (*Advance, error)
	List(ctx context.Context, filter query.Filter) ([]*Advance, error)
	Update(ctx context.Context, a *Advance) error
	Delete(ctx context.Context, id int64) error
	// MarkSettled settles a pending advance and reports whether this call did it.
	MarkSettled(ctx context.Context, id int64, at time.Time) (bool, error)
	CountLinkedExpenses(ctx context.Context, id int64) (int64, error)
}

func (a *Advance) IsSettled() bool {
	return a.SettlementStatus == SettlementSettled
}

func NewAdvance(dto CreateAdvanceDTO) *Advance {
	return &Advance{
		StaffID:          dto.StaffID,
		Amount:           dto.Amount.Round(2),
		Date:             dto.Date,
		Description:      dto.Description,
		Status:           StatusActive,
		SettlementStatus: SettlementPending,
	}
}

func ToDataModel(a *Advance) *advanceDatamodel.Advance {
	return &advanceDatamodel.Advance{
		ID:               a.ID,
		StaffID:          a.StaffID,
		Amount:           a.Amount,
		Date:             a.Date.Time,
		Description:      a.Description,
		Status:           a.Status,
		SettlementStatus: a.SettlementStatus,
		SettledAt:        a.SettledAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func FromDataModel(a *advanceDatamodel.Advance) *Advance {
	return &Advance{
		ID:               a.ID,
		StaffID:          a.StaffID,
		Amount:           a.Amount,
		Date:             datetime.NewDate(a.Date),
		Description:      a.Description,
		Status:           a.Status,
		SettlementStatus: a.SettlementStatus,
		SettledAt:        a.SettledAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*advanceDatamodel.Advance) []*Advance {
	out := make([]*Advance, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
