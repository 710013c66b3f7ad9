package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/domain"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrPlanNotFound  = errors.New("plan not found")
)

// ContentRepository stores course videos and the plans gating them.
type ContentRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewContentRepository(db *gorm.DB, timeout time.Duration) *ContentRepository {
	return &ContentRepository{db: db, timeout: timeout}
}

func (r *ContentRepository) CreateVideo(ctx context.Context, v *domain.Video) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *ContentRepository) GetVideo(ctx context.Context, id int64) (*domain.Video, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var v domain.Video
	err := r.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &v, nil
}

// ListVideos returns free videos, or all videos when includeGated is set.
func (r *ContentRepository) ListVideos(ctx context.Context, includeGated bool) ([]*domain.Video, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeGated {
		q = q.Where("plan_id IS NULL")
	}

	var videos []*domain.Video
	if err := q.Find(&videos).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return videos, nil
}

func (r *ContentRepository) UpdateVideo(ctx context.Context, v *domain.Video) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"title":       v.Title,
			"description": v.Description,
			"url":         v.URL,
			"plan_id":     v.PlanID,
		})
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteVideo(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Delete(&domain.Video{}, id)
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}
	return nil
}

func (r *ContentRepository) GetPlan(ctx context.Context, id int64) (*domain.Plan, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var p domain.Plan
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &p, nil
}

func (r *ContentRepository) ListActivePlans(ctx context.Context) ([]*domain.Plan, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var plans []*domain.Plan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_cents ASC").
		Find(&plans).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return plans, nil
}

func (r *ContentRepository) CreatePlan(ctx context.Context, p *domain.Plan) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *ContentRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}
