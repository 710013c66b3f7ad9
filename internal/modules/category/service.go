package category

import (
	"context"
	"errors"
	"strings"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

var ErrSystemCategory = errors.New("system categories cannot be modified")

type RepositoryInterface interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	ListForUser(ctx context.Context, userID int64) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id, userID int64) error
}

type Service struct {
	categories RepositoryInterface
}

func NewService(categories RepositoryInterface) *Service {
	return &Service{categories: categories}
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Category, error) {
	return s.categories.ListForUser(ctx, userID)
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Category, error) {
	kind := strings.ToLower(req.Kind)
	if kind != string(domain.TransactionIncome) && kind != string(domain.TransactionExpense) {
		kind = string(domain.TransactionExpense)
	}

	c := &domain.Category{
		UserID: &userID,
		Name:   strings.TrimSpace(req.Name),
		Kind:   kind,
		Icon:   req.Icon,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateRequest) (*domain.Category, error) {
	c, err := s.ownedBy(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		c.Name = strings.TrimSpace(req.Name)
	}
	if req.Icon != nil {
		c.Icon = *req.Icon
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id, userID)
}

// ownedBy loads the category and rejects system ones (UserID nil) and
// other users' categories.
func (s *Service) ownedBy(ctx context.Context, userID, id int64) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID == nil {
		return nil, ErrSystemCategory
	}
	// Foreign categories are indistinguishable from missing ones.
	if *c.UserID != userID {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}
