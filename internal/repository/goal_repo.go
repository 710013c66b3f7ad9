package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/domain"
)

var ErrGoalNotFound = errors.New("goal not found")

type GoalRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGoalRepository(db *gorm.DB, timeout time.Duration) *GoalRepository {
	return &GoalRepository{db: db, timeout: timeout}
}

func (r *GoalRepository) Create(ctx context.Context, g *domain.Goal) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Goal, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var g domain.Goal
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &g, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Goal, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var goals []*domain.Goal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return goals, nil
}

func (r *GoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ?", g.ID, g.UserID).
		Updates(map[string]interface{}{
			"name":          g.Name,
			"target_amount": g.TargetAmount,
			"deadline":      g.Deadline,
		})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Contribute adds to saved_amount atomically in storage, so concurrent
// contributions never lose updates.
func (r *GoalRepository) Contribute(ctx context.Context, id, userID int64, amount float64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("saved_amount", gorm.Expr("saved_amount + ?", amount))
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Goal{})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
