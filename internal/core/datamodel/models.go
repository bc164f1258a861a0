// Package datamodel lists the gorm storage models of every ledger table.
package datamodel

import (
	advanceDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/advance"
	categoryDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/expense"
	ledgerDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/ledger"
	userDatamodel "github.com/frahmantamala/expense-ledger/internal/core/datamodel/user"
)

// All returns every model in dependency order, for gorm AutoMigrate on sqlite.
func All() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&categoryDatamodel.ExpenseCategory{},
		&advanceDatamodel.Advance{},
		&expenseDatamodel.Expense{},
		&ledgerDatamodel.AdminExpense{},
		&ledgerDatamodel.Collection{},
		&ledgerDatamodel.TransportPayment{},
	}
}
