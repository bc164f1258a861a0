package user

import (
	"context"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	userDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	StaffCode    string    `json:"staff_code,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, role string) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	DeleteByEmails(ctx context.Context, emails []string) error
}

func (u *User) IsAdmin() bool {
	return u.Role == internal.RoleAdmin
}

func (u *User) IsStaff() bool {
	return u.Role == internal.RoleStaff
}

// SessionUser is the trimmed copy kept in a session and the request context.
func (u *User) SessionUser() internal.User {
	return internal.User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		StaffCode: u.StaffCode,
	}
}

// Validate enforces the account invariants: a known role, and a staff code
// present exactly when the role is staff.
func (u *User) Validate() *internal.AppError {
	if u.Email == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if u.FullName == "" {
		return internal.NewValidationFieldError("full_name", "full_name is required", internal.ErrCodeValidationFailed)
	}
	switch u.Role {
	case internal.RoleStaff:
		if u.StaffCode == "" {
			return internal.NewValidationFieldError("staff_code", "staff_code is required for staff", internal.ErrCodeInvalidStaff)
		}
	case internal.RoleAdmin:
		if u.StaffCode != "" {
			return internal.NewValidationFieldError("staff_code", "staff_code is only valid for staff", internal.ErrCodeInvalidStaff)
		}
	default:
		return internal.NewValidationFieldError("role", "role must be admin or staff", internal.ErrCodeValidationFailed)
	}
	return nil
}

func ToDataModel(u *User) *userDatamodel.User {
	var staffCode *string
	if u.StaffCode != "" {
		code := u.StaffCode
		staffCode = &code
	}
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		StaffCode:    staffCode,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	out := &User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.StaffCode != nil {
		out.StaffCode = *u.StaffCode
	}
	return out
}
