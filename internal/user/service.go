package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
)

type Service struct {
	repo   Repository
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user by id", "user_id", userID, "error", err)
		return nil, err
	}
	return u, nil
}

// List returns every account, or only those with the given role when role is set.
func (s *Service) List(ctx context.Context, role string) ([]*User, error) {
	if role != "" && role != internal.RoleAdmin && role != internal.RoleStaff {
		return nil, internal.NewValidationFieldError("role", "role must be admin or staff", internal.ErrCodeValidationFailed)
	}
	users, err := s.repo.List(ctx, role)
	if err != nil {
		s.logger.Error("failed to list users", "role", role, "error", err)
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies a partial update and announces it so live sessions
// pick up the new profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateUserDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if dto.FullName != nil {
		u.FullName = strings.TrimSpace(*dto.FullName)
	}
	if dto.StaffCode != nil {
		u.StaffCode = strings.TrimSpace(*dto.StaffCode)
	}
	if appErr := u.Validate(); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("failed to update user", "user_id", userID, "error", err)
		return nil, err
	}

	if err := s.events.Publish(ctx, events.NewUserUpdatedEvent(u.ID)); err != nil {
		s.logger.Warn("failed to publish user.updated", "user_id", u.ID, "error", err)
	}
	s.logger.Info("user profile updated", "user_id", u.ID)
	return u, nil
}

// Deactivate disables the account and ends its sessions through the event bus.
// Deactivating an inactive account is a no-op.
func (s *Service) Deactivate(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return u, nil
	}

	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("failed to deactivate user", "user_id", userID, "error", err)
		return nil, err
	}

	if err := s.events.Publish(ctx, events.NewUserDeactivatedEvent(u.ID)); err != nil {
		s.logger.Warn("failed to publish user.deactivated", "user_id", u.ID, "error", err)
	}
	s.logger.Info("user deactivated", "user_id", u.ID)
	return u, nil
}
