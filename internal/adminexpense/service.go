package adminexpense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
)

type CategoryValidator interface {
	IsValidCategory(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	categories CategoryValidator
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, categories CategoryValidator, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateAdminExpenseDTO) (*AdminExpense, error) {
	e := NewAdminExpense(dto)
	if appErr := e.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.checkCategory(ctx, e.Category); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create admin expense", "error", err)
		return nil, err
	}
	s.logger.Info("admin expense created", "admin_expense_id", e.ID, "amount", e.Amount.StringFixed(2))
	return e, nil
}

// List ignores any owner in filter; admin expenses have none.
func (s *Service) List(ctx context.Context, filter query.Filter) ([]*AdminExpense, error) {
	filter.OwnerID = nil
	return s.repo.List(ctx, filter.Normalize())
}

func (s *Service) Get(ctx context.Context, id int64) (*AdminExpense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateAdminExpenseDTO) (*AdminExpense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousCategory := e.Category
	dto.Apply(e)
	if appErr := e.Validate(); appErr != nil {
		return nil, appErr
	}
	if e.Category != previousCategory {
		if err := s.checkCategory(ctx, e.Category); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("failed to update admin expense", "admin_expense_id", id, "error", err)
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete admin expense", "admin_expense_id", id, "error", err)
		return err
	}
	s.logger.Info("admin expense deleted", "admin_expense_id", id)
	return nil
}

func (s *Service) checkCategory(ctx context.Context, name string) error {
	ok, err := s.categories.IsValidCategory(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return internal.NewValidationFieldError("category", "unknown expense category "+name, internal.ErrCodeInvalidCategory)
	}
	return nil
}
