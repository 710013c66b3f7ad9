package transaction

import (
	"context"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/repository"
)

type RepositoryInterface interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Transaction, error)
	List(ctx context.Context, userID int64, f repository.TransactionFilter) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id, userID int64) error
	SumByType(ctx context.Context, userID int64, txType domain.TransactionType, f repository.TransactionFilter) (float64, error)
	TotalsByCategory(ctx context.Context, userID int64, f repository.TransactionFilter) ([]repository.CategoryTotal, error)
}

type Service struct {
	transactions RepositoryInterface
}

func NewService(transactions RepositoryInterface) *Service {
	return &Service{transactions: transactions}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Transaction, error) {
	t := &domain.Transaction{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Type:       domain.TransactionType(req.Type),
		Amount:     req.Amount,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id, userID)
}

func (s *Service) List(ctx context.Context, userID int64, f repository.TransactionFilter) ([]*domain.Transaction, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return s.transactions.List(ctx, userID, f)
}

func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateRequest) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		t.CategoryID = req.CategoryID
	}
	if req.Type != "" {
		t.Type = domain.TransactionType(req.Type)
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Note != nil {
		t.Note = *req.Note
	}
	if req.OccurredAt != nil {
		t.OccurredAt = *req.OccurredAt
	}

	if err := s.transactions.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.transactions.Delete(ctx, id, userID)
}

// Summary aggregates the window [from, to): income and expense totals plus
// the expense breakdown by category.
func (s *Service) Summary(ctx context.Context, userID int64, from, to time.Time) (*SummaryResponse, error) {
	window := repository.TransactionFilter{From: &from, To: &to}

	income, err := s.transactions.SumByType(ctx, userID, domain.TransactionIncome, window)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactions.SumByType(ctx, userID, domain.TransactionExpense, window)
	if err != nil {
		return nil, err
	}

	expenseType := domain.TransactionExpense
	byCategory := window
	byCategory.Type = &expenseType
	totals, err := s.transactions.TotalsByCategory(ctx, userID, byCategory)
	if err != nil {
		return nil, err
	}

	shares := make([]CategoryShare, 0, len(totals))
	for _, t := range totals {
		shares = append(shares, CategoryShare{CategoryID: t.CategoryID, Total: t.Total})
	}

	return &SummaryResponse{
		From:       from,
		To:         to,
		Income:     income,
		Expenses:   expenses,
		Net:        income - expenses,
		ByCategory: shares,
	}, nil
}
