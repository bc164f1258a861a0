// Package ledger holds the storage models of the simple ledgers that carry no
// settlement state: admin expenses, collections and transport payments.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type AdminExpense struct {
	ID        int64           `gorm:"primaryKey"`
	Date      time.Time       `gorm:"column:date;not null;index"`
	Category  string          `gorm:"column:category;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Remarks   string          `gorm:"column:remarks"`
	BillURLs  []string        `gorm:"column:bill_urls;type:text;serializer:json"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (AdminExpense) TableName() string {
	return "admin_expenses"
}

type Collection struct {
	ID        int64           `gorm:"primaryKey"`
	StaffID   int64           `gorm:"column:staff_id;not null;index"`
	Date      time.Time       `gorm:"column:date;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Remarks   string          `gorm:"column:remarks"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Collection) TableName() string {
	return "collections"
}

type TransportPayment struct {
	ID        int64           `gorm:"primaryKey"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	Date      time.Time       `gorm:"column:date;not null;index"`
	Company   string          `gorm:"column:company;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Remarks   string          `gorm:"column:remarks"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (TransportPayment) TableName() string {
	return "transport_payments"
}
