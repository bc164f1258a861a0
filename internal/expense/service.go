package expense

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/advance"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
)

// AdvanceLookup resolves the advance an expense is drawn against.
type AdvanceLookup interface {
	GetByID(ctx context.Context, id int64) (*advance.Advance, error)
}

type CategoryValidator interface {
	IsValidCategory(ctx context.Context, name string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	advances   AdvanceLookup
	categories CategoryValidator
	events     events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, advances AdvanceLookup, categories CategoryValidator, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		advances:   advances,
		categories: categories,
		events:     publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateExpense records an expense for the actor. Admins may record one on
// behalf of a staff member through dto.UserID.
func (s *Service) CreateExpense(ctx context.Context, actor *internal.User, dto CreateExpenseDTO) (*Expense, error) {
	ownerID := actor.ID
	if actor.IsAdmin() && dto.UserID > 0 {
		ownerID = dto.UserID
	}

	e := NewExpense(ownerID, dto)
	if appErr := e.Validate(); appErr != nil {
		s.logger.Warn("expense validation failed", "user_id", ownerID, "error", appErr)
		return nil, appErr
	}
	if err := s.checkCategory(ctx, e.Category); err != nil {
		return nil, err
	}
	if err := s.checkAdvance(ctx, ownerID, e.AdvanceID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", ownerID)
		return nil, err
	}

	s.logger.Info("expense created",
		"expense_id", e.ID,
		"user_id", ownerID,
		"total", e.Total.StringFixed(2))
	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, actor *internal.User, filter query.Filter) ([]*Expense, error) {
	if !actor.IsAdmin() {
		filter = filter.ForOwner(actor.ID)
	}
	expenses, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", actor.ID)
		return nil, err
	}
	return expenses, nil
}

func (s *Service) GetExpense(ctx context.Context, actor *internal.User, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(e.UserID) {
		s.logger.Warn("unauthorized access to expense", "expense_id", id, "user_id", actor.ID, "expense_user_id", e.UserID)
		return nil, internal.ErrUnauthorizedAccess
	}
	return e, nil
}

// UpdateExpense applies a partial update and re-validates the whole record.
func (s *Service) UpdateExpense(ctx context.Context, actor *internal.User, id int64, dto UpdateExpenseDTO) (*Expense, error) {
	e, err := s.GetExpense(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if e.IsSettled() {
		return nil, internal.ErrExpenseSettled
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
	if dto.AdvanceID != nil {
		if err := s.checkAdvance(ctx, e.UserID, e.AdvanceID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteExpense(ctx context.Context, actor *internal.User, id int64) error {
	e, err := s.GetExpense(ctx, actor, id)
	if err != nil {
		return err
	}
	if e.IsSettled() {
		return internal.ErrExpenseSettled
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}
	s.logger.Info("expense deleted", "expense_id", id, "user_id", actor.ID)
	return nil
}

// SettleExpense marks the expense settled. Repeated calls return the record
// unchanged and publish nothing.
func (s *Service) SettleExpense(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.IsSettled() {
		return e, nil
	}

	settledNow, err := s.repo.MarkSettled(ctx, id, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to settle expense", "error", err, "expense_id", id)
		return nil, err
	}
	if e, err = s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if settledNow {
		s.logger.Info("expense settled", "expense_id", id, "total", e.Total.StringFixed(2))
		s.publish(ctx, events.NewExpenseSettledEvent(e.ID, e.UserID, e.AdvanceID, e.Total))
	}
	return e, nil
}

// SubmitToAdmin flags the expense as handed in for review.
func (s *Service) SubmitToAdmin(ctx context.Context, actor *internal.User, id int64) (*Expense, error) {
	e, err := s.GetExpense(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if e.SubmittedToAdmin {
		return e, nil
	}

	submittedNow, err := s.repo.MarkSubmitted(ctx, id, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to submit expense", "error", err, "expense_id", id)
		return nil, err
	}
	if e, err = s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if submittedNow {
		s.logger.Info("expense submitted to admin", "expense_id", id, "user_id", e.UserID)
		s.publish(ctx, events.NewExpenseSubmittedEvent(e.ID, e.UserID))
	}
	return e, nil
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

// checkAdvance requires a linked advance to exist and belong to ownerID.
func (s *Service) checkAdvance(ctx context.Context, ownerID int64, advanceID *int64) error {
	if advanceID == nil {
		return nil
	}
	a, err := s.advances.GetByID(ctx, *advanceID)
	if err != nil {
		if errors.Is(err, internal.ErrAdvanceNotFound) {
			return internal.NewValidationFieldError("advance_id", "advance does not exist", internal.ErrCodeInvalidAdvance)
		}
		return err
	}
	if a.StaffID != ownerID {
		return internal.NewValidationFieldError("advance_id", "advance belongs to another staff member", internal.ErrCodeInvalidAdvance)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
