package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fintrack/internal/database"
	"fintrack/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	u := &domain.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func newSession(userID int64, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		JTI:       uuid.NewString(),
		UserID:    userID,
		State:     domain.SessionActive,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionRepository_Create_DuplicateJTI(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	s := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, s))

	dup := newSession(user.ID, time.Hour)
	dup.JTI = s.JTI
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateSession)
}

func TestSessionRepository_GetByJTI_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)

	_, err := repo.GetByJTI(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_MarkRotated_OnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	s := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, s))

	successor := uuid.NewString()
	ok, err := repo.MarkRotated(ctx, s.JTI, successor)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second attempt loses: the record is no longer Active.
	ok, err = repo.MarkRotated(ctx, s.JTI, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByJTI(ctx, s.JTI)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRotated, got.State)
	require.NotNil(t, got.ReplacedBy)
	assert.Equal(t, successor, *got.ReplacedBy)
	assert.NotNil(t, got.RotatedAt)
}

func TestSessionRepository_MarkRevoked_TerminalStatesStay(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	s := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, s))

	ok, err := repo.MarkRevoked(ctx, s.JTI)
	require.NoError(t, err)
	assert.True(t, ok)

	// Revoked is a sink: neither revoke nor rotate can move it.
	ok, err = repo.MarkRevoked(ctx, s.JTI)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkRotated(ctx, s.JTI, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByJTI(ctx, s.JTI)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRevoked, got.State)
}

func TestSessionRepository_RevokeAllActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	other := seedUser(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newSession(user.ID, time.Hour)))
	}
	rotated := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, rotated))
	_, err := repo.MarkRotated(ctx, rotated.JTI, uuid.NewString())
	require.NoError(t, err)

	otherSession := newSession(other.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, otherSession))

	count, err := repo.RevokeAllActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "only Active sessions count")

	// Rotated record untouched, the other user's session untouched.
	got, err := repo.GetByJTI(ctx, rotated.JTI)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRotated, got.State)

	got, err = repo.GetByJTI(ctx, otherSession.JTI)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, got.State)
}

func TestSessionRepository_RevokeBeyondCap(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	// Five sessions issued in order; cap of 2 keeps the newest two.
	jtis := make([]string, 5)
	base := time.Now()
	for i := 0; i < 5; i++ {
		s := newSession(user.ID, time.Hour)
		s.IssuedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, s))
		jtis[i] = s.JTI
	}

	trimmed, err := repo.RevokeBeyondCap(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), trimmed)

	for i, jti := range jtis {
		got, err := repo.GetByJTI(ctx, jti)
		require.NoError(t, err)
		if i >= 3 {
			assert.Equal(t, domain.SessionActive, got.State, "newest sessions survive")
		} else {
			assert.Equal(t, domain.SessionRevoked, got.State, "oldest sessions are retired")
		}
	}
}

func TestSessionRepository_IsValid(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	live := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, live))

	lapsed := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, lapsed))
	require.NoError(t, db.Model(&domain.Session{}).
		Where("jti = ?", lapsed.JTI).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	ok, err := repo.IsValid(ctx, live.JTI, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsValid(ctx, lapsed.JTI, user.ID)
	require.NoError(t, err)
	assert.False(t, ok, "lapsed window invalidates an Active record")

	ok, err = repo.IsValid(ctx, live.JTI, user.ID+1)
	require.NoError(t, err)
	assert.False(t, ok, "wrong owner")
}

func TestSessionRepository_PurgeExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	live := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, live))

	old := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, db.Model(&domain.Session{}).
		Where("jti = ?", old.JTI).
		Update("expires_at", time.Now().Add(-48*time.Hour)).Error)

	purged, err := repo.PurgeExpired(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByJTI(ctx, old.JTI)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Live sessions are never purged regardless of cutoff.
	_, err = repo.GetByJTI(ctx, live.JTI)
	require.NoError(t, err)
}

func TestSessionRepository_Stats(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db, 5*time.Second)
	user := seedUser(t, db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSession(user.ID, time.Hour)))

	rotated := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, rotated))
	_, err := repo.MarkRotated(ctx, rotated.JTI, uuid.NewString())
	require.NoError(t, err)

	revoked := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, revoked))
	_, err = repo.MarkRevoked(ctx, revoked.JTI)
	require.NoError(t, err)

	lapsed := newSession(user.ID, time.Hour)
	require.NoError(t, repo.Create(ctx, lapsed))
	require.NoError(t, db.Model(&domain.Session{}).
		Where("jti = ?", lapsed.JTI).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalActive)
	assert.Equal(t, int64(1), stats.TotalRotated)
	assert.Equal(t, int64(1), stats.TotalRevoked)
	assert.Equal(t, int64(1), stats.TotalExpired, "lapsed Active records are reported as expired")
	assert.Equal(t, int64(4), stats.Total)
}
