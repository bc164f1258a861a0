package collection

import (
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/shopspring/decimal"
)

type CreateCollectionDTO struct {
	StaffID int64           `json:"staff_id"`
	Date    datetime.Date   `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks string          `json:"remarks"`
}

type UpdateCollectionDTO struct {
	StaffID *int64           `json:"staff_id,omitempty"`
	Date    *datetime.Date   `json:"date,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Remarks *string          `json:"remarks,omitempty"`
}

func (d UpdateCollectionDTO) Apply(c *Collection) {
	if d.StaffID != nil {
		c.StaffID = *d.StaffID
	}
	if d.Date != nil {
		c.Date = *d.Date
	}
	if d.Amount != nil {
		c.Amount = d.Amount.Round(2)
	}
	if d.Remarks != nil {
		c.Remarks = *d.Remarks
	}
}

type CollectionsResponse struct {
	Collections []*Collection `json:"collections"`
	Limit       int           `json:"limit"`
	Offset      int           `json:"offset"`
}
