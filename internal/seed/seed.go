// Package seed installs the demo accounts and default categories, and checks
// that a store still has the expected demo shape.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/auth"
	"github.com/frahmantamala/expense-ledger/internal/user"
)

const (
	ExpectedAdmins = 1
	ExpectedStaff  = 5
)

type UserStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, role string) ([]*user.User, error)
	Create(ctx context.Context, u *user.User) error
	DeleteByEmails(ctx context.Context, emails []string) error
}

type CategorySeeder interface {
	EnsureDefaults(ctx context.Context) (int, error)
}

// Account is one deterministic demo account.
type Account struct {
	Email     string
	FullName  string
	Role      string
	StaffCode string
}

var staffNames = []string{"Staff One", "Staff Two", "Staff Three", "Staff Four", "Staff Five"}

// Accounts returns the admin followed by the five staff accounts.
func Accounts() []Account {
	accounts := []Account{{
		Email:    "admin@company.com",
		FullName: "Administrator",
		Role:     internal.RoleAdmin,
	}}
	for i := 1; i <= ExpectedStaff; i++ {
		accounts = append(accounts, Account{
			Email:     fmt.Sprintf("staff%d@company.com", i),
			FullName:  staffNames[i-1],
			Role:      internal.RoleStaff,
			StaffCode: fmt.Sprintf("STF%03d", i),
		})
	}
	return accounts
}

type Seeder struct {
	users      UserStore
	categories CategorySeeder
	password   string
	cost       int
	logger     *slog.Logger
}

func NewSeeder(users UserStore, categories CategorySeeder, defaultPassword string, bcryptCost int, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:      users,
		categories: categories,
		password:   defaultPassword,
		cost:       bcryptCost,
		logger:     logger,
	}
}

// Ensure seeds the demo accounts when the store has no users at all, and the
// category catalog when it is empty. It reports whether accounts were created.
func (s *Seeder) Ensure(ctx context.Context) (bool, error) {
	if _, err := s.categories.EnsureDefaults(ctx); err != nil {
		return false, fmt.Errorf("seed categories: %w", err)
	}

	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		s.logger.Debug("users present, skipping demo seed", "count", n)
		return false, nil
	}

	if err := s.createAccounts(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Force removes the demo accounts by email and recreates them.
func (s *Seeder) Force(ctx context.Context) error {
	if _, err := s.categories.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	accounts := Accounts()
	emails := make([]string, len(accounts))
	for i, a := range accounts {
		emails[i] = a.Email
	}
	if err := s.users.DeleteByEmails(ctx, emails); err != nil {
		return fmt.Errorf("remove demo accounts: %w", err)
	}
	s.logger.Info("demo accounts removed", "count", len(emails))

	return s.createAccounts(ctx)
}

func (s *Seeder) createAccounts(ctx context.Context) error {
	hash, err := auth.HashPassword(s.password, s.cost)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	for _, a := range Accounts() {
		u := &user.User{
			Email:        a.Email,
			FullName:     a.FullName,
			Role:         a.Role,
			StaffCode:    a.StaffCode,
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("create %s: %w", a.Email, err)
		}
	}
	s.logger.Info("demo accounts seeded", "admins", ExpectedAdmins, "staff", ExpectedStaff)
	return nil
}
