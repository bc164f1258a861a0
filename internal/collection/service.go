package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/user"
)

type StaffLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo   RepositoryAPI
	staff  StaffLookup
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, staff StaffLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		staff:  staff,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateCollectionDTO) (*Collection, error) {
	c := NewCollection(dto)
	if appErr := c.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.checkStaff(ctx, c.StaffID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create collection", "staff_id", c.StaffID, "error", err)
		return nil, err
	}
	s.logger.Info("collection recorded",
		"collection_id", c.ID,
		"staff_id", c.StaffID,
		"amount", c.Amount.StringFixed(2))
	return c, nil
}

func (s *Service) List(ctx context.Context, filter query.Filter) ([]*Collection, error) {
	return s.repo.List(ctx, filter.Normalize())
}

func (s *Service) Get(ctx context.Context, id int64) (*Collection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateCollectionDTO) (*Collection, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStaff := c.StaffID
	dto.Apply(c)
	if appErr := c.Validate(); appErr != nil {
		return nil, appErr
	}
	if c.StaffID != previousStaff {
		if err := s.checkStaff(ctx, c.StaffID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("failed to update collection", "collection_id", id, "error", err)
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete collection", "collection_id", id, "error", err)
		return err
	}
	s.logger.Info("collection deleted", "collection_id", id)
	return nil
}

func (s *Service) checkStaff(ctx context.Context, staffID int64) error {
	u, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return internal.NewValidationFieldError("staff_id", "staff member does not exist", internal.ErrCodeInvalidStaff)
		}
		return err
	}
	if !u.IsStaff() {
		return internal.NewValidationFieldError("staff_id", "collections can only be recorded against staff", internal.ErrCodeInvalidStaff)
	}
	return nil
}
