package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fintrack/internal/domain"
	"fintrack/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service owns the whole session lifecycle: issuance on register/login,
// rotation on refresh, revocation on logout / logout-everywhere.
type Service struct {
	users      UserRepositoryInterface
	sessions   SessionRepositoryInterface
	codec      TokenCodecInterface
	sessionCap int
}

// TokenPair is a freshly minted access/refresh credential pair bound to the
// session identified by JTI.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	JTI          string
}

type LoginResult struct {
	User *domain.User
	Pair *TokenPair
}

func NewService(users UserRepositoryInterface, sessions SessionRepositoryInterface, codec TokenCodecInterface, sessionCap int) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		sessionCap: sessionCap,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest, userAgent, ip string) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.openSession(ctx, user, nil, userAgent, ip)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Pair: pair}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest, userAgent, ip string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.IsSuspended() {
		return nil, ErrAccountSuspended
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user, nil, userAgent, ip)
	if err != nil {
		return nil, err
	}

	// Keep at most sessionCap Active sessions per account; oldest ones are
	// retired through the same conditional path as any revocation. Best
	// effort: a failed trim must not fail the login itself.
	trimmed, err := s.sessions.RevokeBeyondCap(ctx, user.ID, s.sessionCap)
	if err != nil {
		log.Printf("session cap trim failed user_id=%d: %v", user.ID, err)
	} else if trimmed > 0 {
		if err := s.users.DecrementActiveSessions(ctx, user.ID, trimmed); err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Pair: pair}, nil
}

// Refresh rotates the session behind the given refresh credential.
//
// The flow is: verify signature/expiry, load the record, check ownership,
// mint the successor pair, then attempt the one conditional Active->Rotated
// flip. Whoever loses that flip — a concurrent refresh, a racing revoke —
// gets ErrSessionRevoked and the freshly minted credentials are discarded,
// never persisted or returned. At most one rotation can succeed per
// credential.
func (s *Service) Refresh(ctx context.Context, refreshRaw, userAgent, ip string) (*TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(refreshRaw)
	if err != nil {
		return nil, err
	}

	current, err := s.sessions.GetByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if current.UserID != claims.UserID {
		return nil, ErrUserMismatch
	}
	// Expiry is monotonic, so this read-then-act is race-free; state is not
	// pre-checked here — the conditional flip below is the only arbiter.
	if domain.IsExpired(current, time.Now()) {
		return nil, ErrSessionRevoked
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsSuspended() {
		return nil, ErrAccountSuspended
	}

	access, refresh, jti, err := s.codec.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	rotated, err := s.sessions.MarkRotated(ctx, current.JTI, jti)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Lost the race, or the session was revoked in between. The minted
		// pair is dropped on the floor.
		return nil, ErrSessionRevoked
	}

	now := time.Now()
	successor := &domain.Session{
		JTI:         jti,
		UserID:      user.ID,
		State:       domain.SessionActive,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.codec.RefreshTTL()),
		RotatedFrom: &current.JTI,
		UserAgent:   nullableString(userAgent),
		IP:          nullableString(ip),
	}
	if err := s.sessions.Create(ctx, successor); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			log.Printf("FATAL invariant violation: duplicate session jti on rotation user_id=%d", user.ID)
		}
		return nil, err
	}

	// The account still holds the same number of live sessions; the counter
	// does not move on rotation.
	return &TokenPair{AccessToken: access, RefreshToken: refresh, JTI: jti}, nil
}

// Logout revokes the session behind the refresh credential. A credential
// that no longer verifies or references no session is not an error: the
// caller is logging out either way and the cookies get cleared.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	claims, err := s.codec.VerifyRefresh(refreshRaw)
	if err != nil {
		return nil
	}

	revoked, err := s.sessions.MarkRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return s.users.DecrementActiveSessions(ctx, claims.UserID, 1)
	}
	return nil
}

// LogoutAll revokes every Active session of the account and resets the
// counter outright. The reset (rather than per-session decrements) cannot
// race concurrent single-session operations into a negative counter.
func (s *Service) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	count, err := s.sessions.RevokeAllActive(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.users.ResetActiveSessions(ctx, userID); err != nil {
		return count, err
	}
	return count, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// openSession mints a pair and persists the backing Active session record.
func (s *Service) openSession(ctx context.Context, user *domain.User, rotatedFrom *string, userAgent, ip string) (*TokenPair, error) {
	access, refresh, jti, err := s.codec.IssuePair(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		JTI:         jti,
		UserID:      user.ID,
		State:       domain.SessionActive,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.codec.RefreshTTL()),
		RotatedFrom: rotatedFrom,
		UserAgent:   nullableString(userAgent),
		IP:          nullableString(ip),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			log.Printf("FATAL invariant violation: duplicate session jti on login user_id=%d", user.ID)
		}
		return nil, err
	}

	if err := s.users.IncrementActiveSessions(ctx, user.ID); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, JTI: jti}, nil
}

func nullableString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
