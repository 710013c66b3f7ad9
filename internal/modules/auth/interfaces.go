package auth

import (
	"context"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/pkg/token"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	IncrementActiveSessions(ctx context.Context, id int64) error
	DecrementActiveSessions(ctx context.Context, id int64, n int64) error
	ResetActiveSessions(ctx context.Context, id int64) error
}

// SessionRepositoryInterface — storage for refresh sessions. The conditional
// transitions (MarkRotated, MarkRevoked, RevokeAllActive) must be atomic
// storage-level writes; the returned booleans/counts report whether this
// caller won the transition.
type SessionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByJTI(ctx context.Context, jti string) (*domain.Session, error)
	MarkRotated(ctx context.Context, jti, successorJTI string) (bool, error)
	MarkRevoked(ctx context.Context, jti string) (bool, error)
	RevokeAllActive(ctx context.Context, userID int64) (int64, error)
	RevokeBeyondCap(ctx context.Context, userID int64, keep int) (int64, error)
}

// TokenCodecInterface abstracts the credential codec for tests.
type TokenCodecInterface interface {
	IssuePair(userID int64, role string) (access, refresh, jti string, err error)
	VerifyRefresh(tokenStr string) (*token.RefreshClaims, error)
	RefreshTTL() time.Duration
}
