package transportpayment

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, actor *internal.User, dto CreateTransportPaymentDTO) (*TransportPayment, error) {
	ownerID := actor.ID
	if actor.IsAdmin() && dto.UserID > 0 {
		ownerID = dto.UserID
	}

	p := NewTransportPayment(ownerID, dto)
	if appErr := p.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create transport payment", "user_id", ownerID, "error", err)
		return nil, err
	}
	s.logger.Info("transport payment recorded",
		"transport_payment_id", p.ID,
		"user_id", ownerID,
		"company", p.Company)
	return p, nil
}

func (s *Service) List(ctx context.Context, actor *internal.User, filter query.Filter) ([]*TransportPayment, error) {
	if !actor.IsAdmin() {
		filter = filter.ForOwner(actor.ID)
	}
	return s.repo.List(ctx, filter.Normalize())
}

func (s *Service) Get(ctx context.Context, actor *internal.User, id int64) (*TransportPayment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(p.UserID) {
		s.logger.Warn("unauthorized access to transport payment", "transport_payment_id", id, "user_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, actor *internal.User, id int64, dto UpdateTransportPaymentDTO) (*TransportPayment, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	dto.Apply(p)
	if appErr := p.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update transport payment", "transport_payment_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor *internal.User, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete transport payment", "transport_payment_id", id, "error", err)
		return err
	}
	return nil
}
