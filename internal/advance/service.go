package advance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
	"github.com/frahmantamala/expense-ledger/internal/user"
)

// StaffLookup resolves the staff member an advance is issued to.
type StaffLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo   RepositoryAPI
	staff  StaffLookup
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, staff StaffLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		staff:  staff,
		events: publisher,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateAdvanceDTO) (*Advance, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.checkStaff(ctx, dto.StaffID); err != nil {
		return nil, err
	}

	a := NewAdvance(dto)
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create advance", "staff_id", dto.StaffID, "error", err)
		return nil, err
	}

	s.logger.Info("advance created",
		"advance_id", a.ID,
		"staff_id", a.StaffID,
		"amount", a.Amount.StringFixed(2))
	return a, nil
}

// List returns advances matching filter. Staff callers only ever see their own.
func (s *Service) List(ctx context.Context, actor *internal.User, filter query.Filter) ([]*Advance, error) {
	if !actor.IsAdmin() {
		filter = filter.ForOwner(actor.ID)
	}
	advances, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		s.logger.Error("failed to list advances", "error", err)
		return nil, err
	}
	return advances, nil
}

func (s *Service) Get(ctx context.Context, actor *internal.User, id int64) (*Advance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(a.StaffID) {
		s.logger.Warn("unauthorized access to advance", "advance_id", id, "user_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}
	return a, nil
}

// Update applies a partial update. Amount and staff are frozen once the
// advance is settled.
func (s *Service) Update(ctx context.Context, id int64, dto UpdateAdvanceDTO) (*Advance, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsSettled() && dto.changesMoney() {
		return nil, internal.ErrAdvanceSettled
	}

	if dto.StaffID != nil && *dto.StaffID != a.StaffID {
		if err := s.checkStaff(ctx, *dto.StaffID); err != nil {
			return nil, err
		}
		linked, err := s.repo.CountLinkedExpenses(ctx, id)
		if err != nil {
			return nil, err
		}
		if linked > 0 {
			return nil, internal.ErrAdvanceInUse
		}
		a.StaffID = *dto.StaffID
	}
	if dto.Amount != nil {
		a.Amount = dto.Amount.Round(2)
	}
	if dto.Date != nil {
		a.Date = *dto.Date
	}
	if dto.Description != nil {
		a.Description = *dto.Description
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("failed to update advance", "advance_id", id, "error", err)
		return nil, err
	}
	return a, nil
}

// Delete removes an advance that no expense links to.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	linked, err := s.repo.CountLinkedExpenses(ctx, id)
	if err != nil {
		return err
	}
	if linked > 0 {
		return internal.ErrAdvanceInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete advance", "advance_id", id, "error", err)
		return err
	}
	s.logger.Info("advance deleted", "advance_id", id)
	return nil
}

// Settle marks the advance settled. Settling a settled advance returns it
// unchanged; settled_at keeps the time of the first call.
func (s *Service) Settle(ctx context.Context, id int64) (*Advance, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.IsSettled() {
		return a, nil
	}

	settledNow, err := s.repo.MarkSettled(ctx, id, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to settle advance", "advance_id", id, "error", err)
		return nil, err
	}

	a, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settledNow {
		s.logger.Info("advance settled", "advance_id", id, "staff_id", a.StaffID)
		if err := s.events.Publish(ctx, events.NewAdvanceSettledEvent(a.ID, a.StaffID, a.Amount)); err != nil {
			s.logger.Warn("failed to publish advance.settled", "advance_id", id, "error", err)
		}
	}
	return a, nil
}

func (s *Service) checkStaff(ctx context.Context, staffID int64) error {
	u, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return internal.NewValidationFieldError("staff_id", "staff member does not exist", internal.ErrCodeInvalidStaff)
		}
		return err
	}
	if !u.IsStaff() || !u.IsActive {
		return internal.NewValidationFieldError("staff_id", "advances can only be issued to active staff", internal.ErrCodeInvalidStaff)
	}
	return nil
}
