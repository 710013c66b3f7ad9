package budget

import (
	"context"
	"errors"
	"regexp"

	"fintrack/internal/domain"
)

var ErrInvalidMonth = errors.New("month must be in YYYY-MM format")

var monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type RepositoryInterface interface {
	GetByID(ctx context.Context, id, userID int64) (*domain.Budget, error)
	ListByMonth(ctx context.Context, userID int64, month string) ([]*domain.Budget, error)
	Upsert(ctx context.Context, b *domain.Budget) error
	Delete(ctx context.Context, id, userID int64) error
}

// SpendingReaderInterface reports actual expenses per category per month;
// backed by transaction storage.
type SpendingReaderInterface interface {
	SpentInMonth(ctx context.Context, userID, categoryID int64, month string) (float64, error)
}

type Service struct {
	budgets  RepositoryInterface
	spending SpendingReaderInterface
}

func NewService(budgets RepositoryInterface, spending SpendingReaderInterface) *Service {
	return &Service{budgets: budgets, spending: spending}
}

// Set creates or replaces the budget for (category, month).
func (s *Service) Set(ctx context.Context, userID int64, req SetRequest) (*domain.Budget, error) {
	if !monthRe.MatchString(req.Month) {
		return nil, ErrInvalidMonth
	}

	b := &domain.Budget{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
	}
	if err := s.budgets.Upsert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Progress lists the month's budgets, each with the actual spend and the
// remaining headroom (negative when over budget).
func (s *Service) Progress(ctx context.Context, userID int64, month string) ([]*ProgressResponse, error) {
	if !monthRe.MatchString(month) {
		return nil, ErrInvalidMonth
	}

	budgets, err := s.budgets.ListByMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	out := make([]*ProgressResponse, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.spending.SpentInMonth(ctx, userID, b.CategoryID, month)
		if err != nil {
			return nil, err
		}
		out = append(out, &ProgressResponse{
			Budget:    b,
			Spent:     spent,
			Remaining: b.Amount - spent,
		})
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.budgets.Delete(ctx, id, userID)
}
