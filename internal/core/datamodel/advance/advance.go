package advance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Advance struct {
	ID               int64           `gorm:"primaryKey"`
	StaffID          int64           `gorm:"column:staff_id;not null;index"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Date             time.Time       `gorm:"column:date;not null;index"`
	Description      string          `gorm:"column:description"`
	Status           string          `gorm:"column:status;not null;default:active"`
	SettlementStatus string          `gorm:"column:settlement_status;not null;default:pending"`
	SettledAt        *time.Time      `gorm:"column:settled_at"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Advance) TableName() string {
	return "advances"
}
