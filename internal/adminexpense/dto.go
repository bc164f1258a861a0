package adminexpense

import (
	"strings"

	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/shopspring/decimal"
)

type CreateAdminExpenseDTO struct {
	Date     datetime.Date   `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Remarks  string          `json:"remarks"`
	BillURLs []string        `json:"bill_urls"`
}

type UpdateAdminExpenseDTO struct {
	Date     *datetime.Date   `json:"date,omitempty"`
	Category *string          `json:"category,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Remarks  *string          `json:"remarks,omitempty"`
	BillURLs *[]string        `json:"bill_urls,omitempty"`
}

func (d UpdateAdminExpenseDTO) Apply(e *AdminExpense) {
	if d.Date != nil {
		e.Date = *d.Date
	}
	if d.Category != nil {
		e.Category = strings.TrimSpace(*d.Category)
	}
	if d.Amount != nil {
		e.Amount = d.Amount.Round(2)
	}
	if d.Remarks != nil {
		e.Remarks = *d.Remarks
	}
	if d.BillURLs != nil {
		e.BillURLs = cleanURLs(*d.BillURLs)
	}
}

type AdminExpensesResponse struct {
	AdminExpenses []*AdminExpense `json:"admin_expenses"`
	Limit         int             `json:"limit"`
	Offset        int             `json:"offset"`
}
