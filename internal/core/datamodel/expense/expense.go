package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID               int64           `gorm:"primaryKey"`
	UserID           int64           `gorm:"column:user_id;not null;index"`
	AdvanceID        *int64          `gorm:"column:advance_id;index"`
	Date             time.Time       `gorm:"column:date;not null;index"`
	Category         string          `gorm:"column:category;not null"`
	Fare             decimal.Decimal `gorm:"column:fare;type:numeric(14,2);not null;default:0"`
	Parking          decimal.Decimal `gorm:"column:parking;type:numeric(14,2);not null;default:0"`
	Oil              decimal.Decimal `gorm:"column:oil;type:numeric(14,2);not null;default:0"`
	Breakfast        decimal.Decimal `gorm:"column:breakfast;type:numeric(14,2);not null;default:0"`
	Others           decimal.Decimal `gorm:"column:others;type:numeric(14,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null;default:0"`
	NumberOfCases    int             `gorm:"column:number_of_cases;not null;default:0"`
	BillURLs         []string        `gorm:"column:bill_urls;type:text;serializer:json"`
	Remarks          string          `gorm:"column:remarks"`
	SubmittedToAdmin bool            `gorm:"column:submitted_to_admin;not null;default:false"`
	SubmittedAt      *time.Time      `gorm:"column:submitted_at"`
	SettlementStatus string          `gorm:"column:settlement_status;not null;default:pending;index"`
	SettledAt        *time.Time      `gorm:"column:settled_at"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
