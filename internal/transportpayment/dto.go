package transportpayment

import (
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/shopspring/decimal"
)

// CreateTransportPaymentDTO records a payment. UserID is only read for admins.
type CreateTransportPaymentDTO struct {
	UserID  int64           `json:"user_id,omitempty"`
	Date    datetime.Date   `json:"date"`
	Company string          `json:"company"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks string          `json:"remarks"`
}

type UpdateTransportPaymentDTO struct {
	Date    *datetime.Date   `json:"date,omitempty"`
	Company *string          `json:"company,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
	Remarks *string          `json:"remarks,omitempty"`
}

func (d UpdateTransportPaymentDTO) Apply(p *TransportPayment) {
	if d.Date != nil {
		p.Date = *d.Date
	}
	if d.Company != nil {
		p.Company = *d.Company
	}
	if d.Amount != nil {
		p.Amount = d.Amount.Round(2)
	}
	if d.Remarks != nil {
		p.Remarks = *d.Remarks
	}
}

type TransportPaymentsResponse struct {
	TransportPayments []*TransportPayment `json:"transport_payments"`
	Limit             int                 `json:"limit"`
	Offset            int                 `json:"offset"`
}
