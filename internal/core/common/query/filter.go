// Package query holds the list filter shared by the ledger services and the
// helpers that turn it into HTTP query parsing and gorm scopes.
package query

import (
	"net/http"
	"strconv"
	"time"

	errors "github.com/frahmantamala/expense-ledger/internal"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DateLayout   = "2006-01-02"
)

// Filter narrows a ledger listing. A nil OwnerID lists every owner.
type Filter struct {
	OwnerID *int64
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ForOwner returns a copy of f restricted to one owner.
func (f Filter) ForOwner(id int64) Filter {
	f.OwnerID = &id
	return f
}

// FromRequest reads limit, offset, from, to and the owner parameter (staff_id
// or user_id depending on the ledger) from the query string.
func FromRequest(r *http.Request, ownerParam string) (Filter, *errors.AppError) {
	q := r.URL.Query()
	f := Filter{Limit: DefaultLimit}

	if v := q.Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= MaxLimit {
			f.Limit = l
		}
	}
	if v := q.Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil && o >= 0 {
			f.Offset = o
		}
	}
	if v := q.Get(ownerParam); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return Filter{}, errors.NewValidationFieldError(ownerParam, ownerParam+" must be a positive integer", errors.ErrCodeValidationFailed)
		}
		f.OwnerID = &id
	}
	from, appErr := parseDate(q.Get("from"), "from")
	if appErr != nil {
		return Filter{}, appErr
	}
	to, appErr := parseDate(q.Get("to"), "to")
	if appErr != nil {
		return Filter{}, appErr
	}
	if from != nil && to != nil && to.Before(*from) {
		return Filter{}, errors.NewValidationFieldError("to", "to must not be before from", errors.ErrCodeInvalidDate)
	}
	f.From, f.To = from, to
	return f, nil
}

func parseDate(v, field string) (*time.Time, *errors.AppError) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, errors.NewValidationFieldError(field, field+" must be formatted as YYYY-MM-DD", errors.ErrCodeInvalidDate)
	}
	return &t, nil
}
