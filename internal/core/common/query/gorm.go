package query

import (
	stderrors "errors"

	errors "github.com/frahmantamala/expense-ledger/internal"
	"gorm.io/gorm"
)

// Scope applies the filter to a gorm query. ownerColumn names the column the
// filter's OwnerID is matched against.
func Scope(f Filter, ownerColumn string) func(*gorm.DB) *gorm.DB {
	f = f.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		if f.OwnerID != nil {
			db = db.Where(ownerColumn+" = ?", *f.OwnerID)
		}
		if f.From != nil {
			db = db.Where("date >= ?", *f.From)
		}
		if f.To != nil {
			// inclusive of the whole "to" day
			db = db.Where("date < ?", f.To.AddDate(0, 0, 1))
		}
		return db.Order("date DESC").Order("id DESC").Limit(f.Limit).Offset(f.Offset)
	}
}

// TranslateError maps gorm.ErrRecordNotFound to notFound and any other
// storage failure to a BackendUnavailable error.
func TranslateError(err error, notFound *errors.AppError) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	return errors.NewBackendUnavailableError(err)
}
