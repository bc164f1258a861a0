package advance

import (
	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateAdvanceDTO struct {
	StaffID     int64           `json:"staff_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        datetime.Date   `json:"date"`
	Description string          `json:"description"`
}

func (d CreateAdvanceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("staff_id", d.StaffID).Required().MinInt(1, internal.ErrCodeInvalidStaff)
	v.Field("amount", d.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("date", d.Date.Time).Required().NotFuture()
	v.Field("description", d.Description).MaxLength(500)
	return v.Validate()
}

// UpdateAdvanceDTO is a partial update; nil fields keep their value.
type UpdateAdvanceDTO struct {
	StaffID     *int64           `json:"staff_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *datetime.Date   `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (d UpdateAdvanceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.StaffID != nil {
		v.Field("staff_id", *d.StaffID).MinInt(1, internal.ErrCodeInvalidStaff)
	}
	if d.Amount != nil {
		v.Field("amount", *d.Amount).Positive(internal.ErrCodeInvalidAmount)
	}
	if d.Date != nil {
		v.Field("date", d.Date.Time).Required().NotFuture()
	}
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(500)
	}
	return v.Validate()
}

// changesMoney reports whether the patch touches fields the balance depends on.
func (d UpdateAdvanceDTO) changesMoney() bool {
	return d.StaffID != nil || d.Amount != nil
}

type AdvancesResponse struct {
	Advances []*Advance `json:"advances"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
