package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"fintrack/internal/domain"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var u domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return count > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var users []*domain.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return users, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// IncrementActiveSessions bumps the counter by one, atomically in storage.
func (r *UserRepository) IncrementActiveSessions(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("active_sessions", gorm.Expr("active_sessions + 1")).Error
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// DecrementActiveSessions lowers the counter by n, clamped at zero. The clamp
// lives in the WHERE/CASE of a single UPDATE so the counter can never go
// negative under any interleaving.
func (r *UserRepository) DecrementActiveSessions(ctx context.Context, id int64, n int64) error {
	if n <= 0 {
		return nil
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("active_sessions", gorm.Expr(
			"CASE WHEN active_sessions > ? THEN active_sessions - ? ELSE 0 END", n, n,
		)).Error
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// ResetActiveSessions sets the counter to zero outright. Used by bulk
// revocation, where individually tracked decrements could race the bulk
// update.
func (r *UserRepository) ResetActiveSessions(ctx context.Context, id int64) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("active_sessions", 0).Error
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (r *UserRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
