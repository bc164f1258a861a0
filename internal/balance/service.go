package balance

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-ledger/internal"
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

// ForStaff returns the balance of one staff member. Staff may only read their own.
func (s *Service) ForStaff(ctx context.Context, actor *internal.User, staffID int64) (*StaffSummary, error) {
	if !actor.CanAccess(staffID) {
		s.logger.Warn("unauthorized balance lookup", "staff_id", staffID, "user_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}

	totals, err := s.repo.StaffTotals(ctx, staffID)
	if err != nil {
		s.logger.Error("failed to compute staff balance", "staff_id", staffID, "error", err)
		return nil, err
	}
	return summarizeStaff(totals), nil
}

func (s *Service) Aggregate(ctx context.Context) (Summary, error) {
	totals, err := s.repo.AggregateTotals(ctx)
	if err != nil {
		s.logger.Error("failed to compute aggregate balance", "error", err)
		return Summary{}, err
	}
	return Summarize(*totals), nil
}

func (s *Service) PerStaff(ctx context.Context) ([]*StaffSummary, error) {
	rows, err := s.repo.AllStaffTotals(ctx)
	if err != nil {
		s.logger.Error("failed to compute per-staff balances", "error", err)
		return nil, err
	}
	out := make([]*StaffSummary, len(rows))
	for i, row := range rows {
		out[i] = summarizeStaff(row)
	}
	return out, nil
}

// Overview combines the aggregate and per-staff balances for the admin view.
func (s *Service) Overview(ctx context.Context) (*OverviewResponse, error) {
	aggregate, err := s.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.PerStaff(ctx)
	if err != nil {
		return nil, err
	}
	return &OverviewResponse{Aggregate: aggregate, Staff: staff}, nil
}
