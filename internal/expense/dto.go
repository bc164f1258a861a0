package expense

import (
	"strings"

	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO is the create payload. A client supplied total is not
// part of it; the total is always derived from the components. UserID is
// honoured only for admins recording on behalf of a staff member.
type CreateExpenseDTO struct {
	UserID        int64           `json:"user_id,omitempty"`
	AdvanceID     *int64          `json:"advance_id,omitempty"`
	Date          datetime.Date   `json:"date"`
	Category      string          `json:"category"`
	Fare          decimal.Decimal `json:"fare"`
	Parking       decimal.Decimal `json:"parking"`
	Oil           decimal.Decimal `json:"oil"`
	Breakfast     decimal.Decimal `json:"breakfast"`
	Others        decimal.Decimal `json:"others"`
	NumberOfCases int             `json:"number_of_cases"`
	BillURLs      []string        `json:"bill_urls"`
	Remarks       string          `json:"remarks"`
}

// UpdateExpenseDTO is a partial update. An AdvanceID of 0 unlinks the advance.
type UpdateExpenseDTO struct {
	AdvanceID     *int64           `json:"advance_id,omitempty"`
	Date          *datetime.Date   `json:"date,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Fare          *decimal.Decimal `json:"fare,omitempty"`
	Parking       *decimal.Decimal `json:"parking,omitempty"`
	Oil           *decimal.Decimal `json:"oil,omitempty"`
	Breakfast     *decimal.Decimal `json:"breakfast,omitempty"`
	Others        *decimal.Decimal `json:"others,omitempty"`
	NumberOfCases *int             `json:"number_of_cases,omitempty"`
	BillURLs      *[]string        `json:"bill_urls,omitempty"`
	Remarks       *string          `json:"remarks,omitempty"`
}

// Apply copies the set fields onto e and recomputes the total.
func (d UpdateExpenseDTO) Apply(e *Expense) {
	if d.AdvanceID != nil {
		if *d.AdvanceID == 0 {
			e.AdvanceID = nil
		} else {
			id := *d.AdvanceID
			e.AdvanceID = &id
		}
	}
	if d.Date != nil {
		e.Date = *d.Date
	}
	if d.Category != nil {
		e.Category = strings.TrimSpace(*d.Category)
	}
	if d.Fare != nil {
		e.Fare = *d.Fare
	}
	if d.Parking != nil {
		e.Parking = *d.Parking
	}
	if d.Oil != nil {
		e.Oil = *d.Oil
	}
	if d.Breakfast != nil {
		e.Breakfast = *d.Breakfast
	}
	if d.Others != nil {
		e.Others = *d.Others
	}
	if d.NumberOfCases != nil {
		e.NumberOfCases = *d.NumberOfCases
	}
	if d.BillURLs != nil {
		e.BillURLs = cleanURLs(*d.BillURLs)
	}
	if d.Remarks != nil {
		e.Remarks = *d.Remarks
	}
	e.ComputeTotal()
}

type ExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
