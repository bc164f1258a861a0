package category

import (
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
)

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d CreateCategoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(50)
	v.Field("description", d.Description).MaxLength(255)
	return v.Validate()
}
