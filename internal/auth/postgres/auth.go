package postgres

import (
	"context"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/auth"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	userDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

var _ auth.CredentialStore = (*Repository)(nil)

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAccountNotFound)
	}
	return &auth.Credentials{
		User:         sessionUser(&row),
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
	}, nil
}

// GetProfile returns the session view of an active account.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*internal.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", userID, true).
		First(&row).Error
	if err != nil {
		return nil, query.TranslateError(err, internal.ErrAccountNotFound)
	}
	u := sessionUser(&row)
	return &u, nil
}

func sessionUser(row *userDatamodel.User) internal.User {
	u := internal.User{
		ID:       row.ID,
		Email:    row.Email,
		FullName: row.FullName,
		Role:     row.Role,
	}
	if row.StaffCode != nil {
		u.StaffCode = *row.StaffCode
	}
	return u
}
