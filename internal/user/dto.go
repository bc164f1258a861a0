package user

import (
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
)

// UpdateUserDTO is a partial profile update; nil fields are left unchanged.
type UpdateUserDTO struct {
	FullName  *string `json:"full_name,omitempty"`
	StaffCode *string `json:"staff_code,omitempty"`
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.FullName != nil {
		v.Field("full_name", strings.TrimSpace(*d.FullName)).Required().MaxLength(120)
	}
	if d.StaffCode != nil {
		v.Field("staff_code", *d.StaffCode).MaxLength(20)
	}
	return v.Validate()
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
