// Package adminexpense is the ledger of the administrator's own spending.
// Entries are independent of advances and never affect a staff balance.
package adminexpense

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	"github.com/shopspring/decimal"
)

type AdminExpense struct {
	ID        int64           `json:"id"`
	Date      datetime.Date   `json:"date"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Remarks   string          `json:"remarks"`
	BillURLs  []string        `json:"bill_urls"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type RepositoryAPI interface {
	Create(ctx context.Context, e *AdminExpense) error
	GetByID(ctx context.Context, id int64) (*AdminExpense, error)
	List(ctx context.Context, filter query.Filter) ([]*AdminExpense, error)
	Update(ctx context.Context, e *AdminExpense) error
	Delete(ctx context.Context, id int64) error
}

func (e *AdminExpense) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("date", e.Date.Time).Required().NotFuture()
	v.Field("category", e.Category).Required().MaxLength(100)
	v.Field("amount", e.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("remarks", e.Remarks).MaxLength(1000)
	return v.Validate()
}

func NewAdminExpense(dto CreateAdminExpenseDTO) *AdminExpense {
	return &AdminExpense{
		Date:     dto.Date,
		Category: strings.TrimSpace(dto.Category),
		Amount:   dto.Amount.Round(2),
		Remarks:  dto.Remarks,
		BillURLs: cleanURLs(dto.BillURLs),
	}
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

func ToDataModel(e *AdminExpense) *ledgerDatamodel.AdminExpense {
	return &ledgerDatamodel.AdminExpense{
		ID:        e.ID,
		Date:      e.Date.Time,
		Category:  e.Category,
		Amount:    e.Amount,
		Remarks:   e.Remarks,
		BillURLs:  e.BillURLs,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *ledgerDatamodel.AdminExpense) *AdminExpense {
	bills := e.BillURLs
	if bills == nil {
		bills = []string{}
	}
	return &AdminExpense{
		ID:        e.ID,
		Date:      datetime.NewDate(e.Date),
		Category:  e.Category,
		Amount:    e.Amount,
		Remarks:   e.Remarks,
		BillURLs:  bills,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*ledgerDatamodel.AdminExpense) []*AdminExpense {
	out := make([]*AdminExpense, len(rows))
	for i, row := range rows {
		out[i] = FromDataModel(row)
	}
	return out
}
