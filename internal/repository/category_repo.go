package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/domain"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCategoryRepository(db *gorm.DB, timeout time.Duration) *CategoryRepository {
	return &CategoryRepository{db: db, timeout: timeout}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &c, nil
}

// ListForUser returns system categories (user_id NULL) plus the user's own.
func (r *CategoryRepository) ListForUser(ctx context.Context, userID int64) ([]*domain.Category, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// Delete removes a category owned by the user. System categories cannot be
// deleted through this path.
func (r *CategoryRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Category{})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
