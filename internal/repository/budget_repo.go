package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/domain"
)

var ErrBudgetNotFound = errors.New("budget not found")

type BudgetRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewBudgetRepository(db *gorm.DB, timeout time.Duration) *BudgetRepository {
	return &BudgetRepository{db: db, timeout: timeout}
}

func (r *BudgetRepository) Create(ctx context.Context, b *domain.Budget) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Budget, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var b domain.Budget
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBudgetNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &b, nil
}

// ListByMonth returns the user's budgets for one YYYY-MM month.
func (r *BudgetRepository) ListByMonth(ctx context.Context, userID int64, month string) ([]*domain.Budget, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var budgets []*domain.Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND month = ?", userID, month).
		Order("category_id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return budgets, nil
}

// Upsert updates the amount if a budget for (user, category, month) exists,
// otherwise creates it.
func (r *BudgetRepository) Upsert(ctx context.Context, b *domain.Budget) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&domain.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ?", b.UserID, b.CategoryID, b.Month).
		Update("amount", b.Amount)
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Budget{})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
