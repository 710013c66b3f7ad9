package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	sqlite "modernc.org/sqlite"
)

var (
	// ErrDuplicateSession means a jti collided on insert. With random UUIDs
	// this indicates a broken generator and is treated as a hard error.
	ErrDuplicateSession = errors.New("duplicate session jti")

	// ErrSessionNotFound is returned when no record exists for a jti.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable wraps transient storage failures (timeouts,
	// connection loss). Callers retry at a higher layer instead of treating
	// it as an authentication failure.
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// SessionRepository persists refresh-session records.
//
// The state transitions MarkRotated, MarkRevoked and RevokeAllActive are
// implemented as single conditional UPDATE statements guarded by
// state = 'active'. The database decides the winner of any race; application
// code never does read-then-write on session state.
type SessionRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewSessionRepository(db *gorm.DB, timeout time.Duration) *SessionRepository {
	return &SessionRepository{db: db, timeout: timeout}
}

// Create inserts a new Active session record.
func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	s.State = domain.SessionActive
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSession
		}
		return wrapStoreErr(err)
	}
	return nil
}

func (r *SessionRepository) GetByJTI(ctx context.Context, jti string) (*domain.Session, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var s domain.Session
	err := r.db.WithContext(ctx).Where("jti = ?", jti).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &s, nil
}

// IsValid reports whether the session exists, belongs to the user, is Active
// and has not passed its validity window.
func (r *SessionRepository) IsValid(ctx context.Context, jti string, userID int64) (bool, error) {
	s, err := r.GetByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.UserID == userID && domain.IsUsable(s, time.Now()), nil
}

func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Session, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var sessions []*domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ? AND expires_at > ?", userID, domain.SessionActive, time.Now()).
		Order("issued_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return sessions, nil
}

// ListRecentByUser returns the newest sessions for the account regardless of
// state, for the devices/audit view.
func (r *SessionRepository) ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*domain.Session, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var sessions []*domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return sessions, nil
}

// MarkRotated flips the session Active -> Rotated and records its successor.
// Returns true only if this call performed the transition. This conditional
// write is the single serialization point of the whole rotation flow.
func (r *SessionRepository) MarkRotated(ctx context.Context, jti, successorJTI string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	now := time.Now()
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("jti = ? AND state = ?", jti, domain.SessionActive).
		Updates(map[string]any{
			"state":       domain.SessionRotated,
			"rotated_at":  now,
			"replaced_by": successorJTI,
		})
	if res.Error != nil {
		return false, wrapStoreErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkRevoked flips the session Active -> Revoked. Returns whether a
// transition actually occurred.
func (r *SessionRepository) MarkRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("jti = ? AND state = ?", jti, domain.SessionActive).
		Updates(map[string]any{
			"state":      domain.SessionRevoked,
			"revoked_at": time.Now(),
		})
	if res.Error != nil {
		return false, wrapStoreErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RevokeAllActive revokes every Active session of the account in one
// conditional bulk update and returns how many records transitioned.
func (r *SessionRepository) RevokeAllActive(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("user_id = ? AND state = ?", userID, domain.SessionActive).
		Updates(map[string]any{
			"state":      domain.SessionRevoked,
			"revoked_at": time.Now(),
		})
	if res.Error != nil {
		return 0, wrapStoreErr(res.Error)
	}
	return res.RowsAffected, nil
}

// RevokeBeyondCap revokes Active sessions of the account beyond the `keep`
// newest ones. Candidate jtis are selected first, then revoked through the
// same conditional path, so a session rotated or revoked in between is
// simply skipped.
func (r *SessionRepository) RevokeBeyondCap(ctx context.Context, userID int64, keep int) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var jtis []string
	err := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("user_id = ? AND state = ?", userID, domain.SessionActive).
		Order("issued_at DESC").
		Offset(keep).
		Limit(-1).
		Pluck("jti", &jtis).Error
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	if len(jtis) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("jti IN ? AND state = ?", jtis, domain.SessionActive).
		Updates(map[string]any{
			"state":      domain.SessionRevoked,
			"revoked_at": time.Now(),
		})
	if res.Error != nil {
		return 0, wrapStoreErr(res.Error)
	}
	return res.RowsAffected, nil
}

// PurgeExpired deletes records whose validity window ended before the cutoff.
// Active unexpired records are untouched by construction (their expires_at is
// in the future), so the sweep is safe to run concurrently with everything.
func (r *SessionRepository) PurgeExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).
		Where("expires_at < ?", olderThan).
		Delete(&domain.Session{})
	if res.Error != nil {
		return 0, wrapStoreErr(res.Error)
	}
	return res.RowsAffected, nil
}

// Stats aggregates counts across all accounts for the operations dashboard.
// Expired is computed, not stored: Active records past their window count as
// expired, not active.
func (r *SessionRepository) Stats(ctx context.Context) (*domain.SessionStats, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	now := time.Now()
	stats := &domain.SessionStats{}

	type stateCount struct {
		State string
		N     int64
	}
	var rows []stateCount
	err := r.db.WithContext(ctx).Model(&domain.Session{}).
		Select("state, COUNT(*) AS n").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	for _, row := range rows {
		switch domain.SessionState(row.State) {
		case domain.SessionActive:
			stats.TotalActive = row.N
		case domain.SessionRotated:
			stats.TotalRotated = row.N
		case domain.SessionRevoked:
			stats.TotalRevoked = row.N
		}
		stats.Total += row.N
	}

	var lapsed int64
	err = r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("state = ? AND expires_at <= ?", domain.SessionActive, now).
		Count(&lapsed).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	stats.TotalActive -= lapsed
	stats.TotalExpired = lapsed

	return stats, nil
}

func (r *SessionRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// gorm's TranslateError only knows the cgo sqlite driver's error types,
	// so the modernc driver's constraint violations must be matched directly:
	// SQLITE_CONSTRAINT_PRIMARYKEY (1555) and SQLITE_CONSTRAINT_UNIQUE (2067).
	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		code := sqErr.Code()
		return code == 1555 || code == 2067
	}
	return false
}

// wrapStoreErr marks anything that is not a domain outcome (not-found,
// duplicate key) as transient storage trouble, including context deadline
// exhaustion from the bounded per-call timeout.
func wrapStoreErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
