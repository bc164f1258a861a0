package category

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, category *Category) error
	SetActive(ctx context.Context, id int64, active bool) error
}

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

func (s *Service) GetAllCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		if c.IsActiveCategory() {
			responses = append(responses, c.ToResponse())
		}
	}
	return responses, nil
}

// IsValidCategory reports whether name is an active catalog entry. Matching
// ignores case.
func (s *Service) IsValidCategory(ctx context.Context, name string) (bool, error) {
	c, err := s.repo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.Warn("error checking category validity", "name", name, "error", err)
		return false, err
	}
	return c != nil && c.IsActiveCategory(), nil
}

func (s *Service) Create(ctx context.Context, dto CreateCategoryDTO) (*Category, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	name := strings.TrimSpace(dto.Name)
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, internal.NewConflictError("category already exists", internal.ErrCodeInvalidCategory)
		}
		if err := s.repo.SetActive(ctx, existing.ID, true); err != nil {
			return nil, err
		}
		existing.IsActive = true
		return existing, nil
	}

	c := NewCategory(name, dto.Description)
	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create category", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// Deactivate hides a category from new entries. Existing records keep their
// category text.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		s.logger.Error("failed to deactivate category", "category_id", id, "error", err)
		return err
	}
	return nil
}

// EnsureDefaults installs DefaultCategories when the catalog is empty and
// returns how many were created.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for _, def := range DefaultCategories {
		c := NewCategory(def.Name, def.Description)
		if err := s.repo.Create(ctx, c); err != nil {
			return 0, err
		}
	}
	s.logger.Info("default categories installed", "count", len(DefaultCategories))
	return len(DefaultCategories), nil
}
