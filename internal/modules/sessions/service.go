package sessions

import (
	"context"
	"time"

	"fintrack/internal/domain"
)

// SessionReaderInterface is the read side of session storage the auditor
// needs. It never mutates state.
type SessionReaderInterface interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Session, error)
	ListRecentByUser(ctx context.Context, userID int64, limit int) ([]*domain.Session, error)
	Stats(ctx context.Context) (*domain.SessionStats, error)
}

// Service exposes read-only audit views over session storage: per-user
// device lists and fleet-wide state counts.
type Service struct {
	sessions SessionReaderInterface
}

func NewService(sessions SessionReaderInterface) *Service {
	return &Service{sessions: sessions}
}

// ActiveSessions lists the caller's live sessions, lapsed ones shown as
// expired.
func (s *Service) ActiveSessions(ctx context.Context, userID int64) ([]*SessionView, error) {
	records, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toViews(records), nil
}

// RecentSessions lists the caller's latest sessions across all states, the
// rotation chain included, newest first.
func (s *Service) RecentSessions(ctx context.Context, userID int64, limit int) ([]*SessionView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	records, err := s.sessions.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return toViews(records), nil
}

func (s *Service) Stats(ctx context.Context) (*domain.SessionStats, error) {
	return s.sessions.Stats(ctx)
}

func toViews(records []*domain.Session) []*SessionView {
	now := time.Now()
	views := make([]*SessionView, 0, len(records))
	for _, r := range records {
		views = append(views, ToSessionView(r, now))
	}
	return views
}
