package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/category"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultCategories is the catalog installed into an empty store.
var DefaultCategories = []Category{
	{Name: "Travel", Description: "Fares and local conveyance"},
	{Name: "Fuel", Description: "Vehicle oil and fuel"},
	{Name: "Food", Description: "Meals while on duty"},
	{Name: "Parking", Description: "Parking and tolls"},
	{Name: "Office", Description: "Stationery and office supplies"},
	{Name: "Others", Description: "Anything not covered above"},
}

func (c *Category) IsActiveCategory() bool {
	return c.IsActive
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func NewCategory(name, description string) *Category {
	return &Category{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.ExpenseCategory {
	return &categoryDatamodel.ExpenseCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.ExpenseCategory) *Category {
	return &Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
