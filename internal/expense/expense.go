package expense

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	expenseDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

const (
	SettlementPending = "pending"
	SettlementSettled = "settled"
)

// BillThreshold is the total above which at least one bill must be attached.
var BillThreshold = decimal.NewFromInt(500)

type Expense struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	AdvanceID        *int64          `json:"advance_id,omitempty"`
	Date             datetime.Date   `json:"date"`
	Category         string          `json:"category"`
	Fare             decimal.Decimal `json:"fare"`
	Parking          decimal.Decimal `json:"parking"`
	Oil              decimal.Decimal `json:"oil"`
	Breakfast        decimal.Decimal `json:"breakfast"`
	Others           decimal.Decimal `json:"others"`
	Total            decimal.Decimal `json:"total"`
	NumberOfCases    int             `json:"number_of_cases"`
	BillURLs         []string        `json:"bill_urls"`
	Remarks          string          `json:"remarks"`
	SubmittedToAdmin bool            `json:"submitted_to_admin"`
	SubmittedAt      *time.Time      `json:"submitted_at,omitempty"`
	SettlementStatus string          `json:"settlement_status"`
	SettledAt        *time.Time      `json:"settled_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, filter query.Filter) ([]*Expense, error)
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id int64) error
	MarkSettled(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkSubmitted(ctx context.Context, id int64, at time.Time) (bool, error)
}

func (e *Expense) IsSettled() bool {
	return e.SettlementStatus == SettlementSettled
}

// ComputeTotal overwrites Total with the sum of the five components.
func (e *Expense) ComputeTotal() {
	e.Fare = e.Fare.Round(2)
	e.Parking = e.Parking.Round(2)
	e.Oil = e.Oil.Round(2)
	e.Breakfast = e.Breakfast.Round(2)
	e.Others = e.Others.Round(2)
	e.Total = e.Fare.Add(e.Parking).Add(e.Oil).Add(e.Breakfast).Add(e.Others)
}

func (e *Expense) RequiresBill() bool {
	return e.Total.GreaterThan(BillThreshold)
}

// Validate checks a complete record. Total must already be computed.
func (e *Expense) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", e.Date.Time).Required().NotFuture()
	v.Field("category", e.Category).Required().MaxLength(100)
	v.Field("fare", e.Fare).NonNegative(internal.ErrCodeInvalidAmount)
	v.Field("parking", e.Parking).NonNegative(internal.ErrCodeInvalidAmount)
	v.Field("oil", e.Oil).NonNegative(internal.ErrCodeInvalidAmount)
	v.Field("breakfast", e.Breakfast).NonNegative(internal.ErrCodeInvalidAmount)
	v.Field("others", e.Others).NonNegative(internal.ErrCodeInvalidAmount)
	v.Field("number_of_cases", int64(e.NumberOfCases)).MinInt(0, internal.ErrCodeValidationFailed)
	v.Field("remarks", e.Remarks).MaxLength(1000)
	v.Field("bill_urls", e.BillURLs).Custom(func(interface{}) *internal.AppError {
		if e.RequiresBill() && len(e.BillURLs) == 0 {
			return internal.NewValidationFieldError("bill_urls",
				"at least one bill is required when the total exceeds "+BillThreshold.String(),
				internal.ErrCodeBillRequired)
		}
		return nil
	})
	return v.Validate()
}

func NewExpense(userID int64, dto CreateExpenseDTO) *Expense {
	e := &Expense{
		UserID:           userID,
		AdvanceID:        dto.AdvanceID,
		Date:             dto.Date,
		Category:         strings.TrimSpace(dto.Category),
		Fare:             dto.Fare,
		Parking:          dto.Parking,
		Oil:              dto.Oil,
		Breakfast:        dto.Breakfast,
		Others:           dto.Others,
		NumberOfCases:    dto.NumberOfCases,
		BillURLs:         cleanURLs(dto.BillURLs),
		Remarks:          dto.Remarks,
		SettlementStatus: SettlementPending,
	}
	e.ComputeTotal()
	return e
}

func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:               e.ID,
		UserID:           e.UserID,
		AdvanceID:        e.AdvanceID,
		Date:             e.Date.Time,
		Category:         e.Category,
		Fare:             e.Fare,
		Parking:          e.Parking,
		Oil:              e.Oil,
		Breakfast:        e.Breakfast,
		Others:           e.Others,
		Total:            e.Total,
		NumberOfCases:    e.NumberOfCases,
		BillURLs:         e.BillURLs,
		Remarks:          e.Remarks,
		SubmittedToAdmin: e.SubmittedToAdmin,
		SubmittedAt:      e.SubmittedAt,
		SettlementStatus: e.SettlementStatus,
		SettledAt:        e.SettledAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	bills := e.BillURLs
	if bills == nil {
		bills = []string{}
	}
	return &Expense{
		ID:               e.ID,
		UserID:           e.UserID,
		AdvanceID:        e.AdvanceID,
		Date:             datetime.NewDate(e.Date),
		Category:         e.Category,
		Fare:             e.Fare,
		Parking:          e.Parking,
		Oil:              e.Oil,
		Breakfast:        e.Breakfast,
		Others:           e.Others,
		Total:            e.Total,
		NumberOfCases:    e.NumberOfCases,
		BillURLs:         bills,
		Remarks:          e.Remarks,
		SubmittedToAdmin: e.SubmittedToAdmin,
		SubmittedAt:      e.SubmittedAt,
		SettlementStatus: e.SettlementStatus,
		SettledAt:        e.SettledAt,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
