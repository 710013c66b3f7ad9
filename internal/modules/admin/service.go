package admin

import (
	"context"
	"errors"

	"fintrack/internal/domain"
)

var ErrCannotSuspend = errors.New("cannot suspend an admin account")

// UserRepositoryInterface — account management side.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	ResetActiveSessions(ctx context.Context, id int64) error
}

// SessionRevokerInterface — the revocation primitive the admin surface
// drives.
type SessionRevokerInterface interface {
	RevokeAllActive(ctx context.Context, userID int64) (int64, error)
}

// Service is the administrative surface: account listing, suspension and
// forced session revocation.
type Service struct {
	users    UserRepositoryInterface
	sessions SessionRevokerInterface
}

func NewService(users UserRepositoryInterface, sessions SessionRevokerInterface) *Service {
	return &Service{users: users, sessions: sessions}
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// SuspendUser flips the account to suspended and revokes every live
// session, so the account loses access at the next refresh at the latest.
func (s *Service) SuspendUser(ctx context.Context, userID int64) (int64, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.Role == domain.RoleAdmin {
		return 0, ErrCannotSuspend
	}

	if err := s.users.SetStatus(ctx, userID, domain.StatusSuspended); err != nil {
		return 0, err
	}
	return s.revokeAll(ctx, userID)
}

// ReinstateUser lifts a suspension. Previously revoked sessions stay
// revoked; the user logs in again.
func (s *Service) ReinstateUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.users.SetStatus(ctx, userID, domain.StatusActive)
}

// RevokeUserSessions force-logs-out every device of the account without
// touching its status.
func (s *Service) RevokeUserSessions(ctx context.Context, userID int64) (int64, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.revokeAll(ctx, userID)
}

func (s *Service) revokeAll(ctx context.Context, userID int64) (int64, error) {
	count, err := s.sessions.RevokeAllActive(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.users.ResetActiveSessions(ctx, userID); err != nil {
		return count, err
	}
	return count, nil
}
