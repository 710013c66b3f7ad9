package goal

import (
	"context"
	"strings"

	"fintrack/internal/domain"
)

type RepositoryInterface interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Contribute(ctx context.Context, id, userID int64, amount float64) error
	Delete(ctx context.Context, id, userID int64) error
}

type Service struct {
	goals RepositoryInterface
}

func NewService(goals RepositoryInterface) *Service {
	return &Service{goals: goals}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Goal, error) {
	g := &domain.Goal{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Goal, error) {
	return s.goals.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateRequest) (*domain.Goal, error) {
	g, err := s.goals.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		g.Name = strings.TrimSpace(req.Name)
	}
	if req.TargetAmount != nil {
		g.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		g.Deadline = req.Deadline
	}

	if err := s.goals.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Contribute adds to the saved amount and returns the refreshed record.
func (s *Service) Contribute(ctx context.Context, userID, id int64, amount float64) (*domain.Goal, error) {
	if err := s.goals.Contribute(ctx, id, userID, amount); err != nil {
		return nil, err
	}
	return s.goals.GetByID(ctx, id, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.goals.Delete(ctx, id, userID)
}
