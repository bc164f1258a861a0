package postgres

import (
	"context"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	userDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-ledger/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAccountNotFound)
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAccountNotFound)
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) List(ctx context.Context, role string) ([]*user.User, error) {
	var rows []*userDatamodel.User
	db := r.db.WithContext(ctx)
	if role != "" {
		db = db.Where("role = ?", role)
	}
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, query.TranslateError(err, internal.ErrAccountNotFound)
	}

	users := make([]*user.User, len(rows))
	for i, row := range rows {
		users[i] = user.FromDataModel(row)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&n).Error; err != nil {
		return 0, query.TranslateError(err, internal.ErrAccountNotFound)
	}
	return n, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return query.TranslateError(err, internal.ErrAccountNotFound)
	}
	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	result := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"full_name":  u.FullName,
			"staff_code": user.ToDataModel(u).StaffCode,
			"is_active":  u.IsActive,
		})
	if result.Error != nil {
		return query.TranslateError(result.Error, internal.ErrAccountNotFound)
	}
	if result.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}

func (r *UserRepository) DeleteByEmails(ctx context.Context, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Where("email IN ?", emails).Delete(&userDatamodel.User{}).Error
	return query.TranslateError(err, internal.ErrAccountNotFound)
}
