package sessions

import (
	"time"

	"fintrack/internal/domain"
)

// SessionView is the audit projection of one session record. The raw
// refresh credential is never part of it; the jti alone identifies the
// session.
type SessionView struct {
	JTI         string     `json:"jti"`
	State       string     `json:"state"`
	IssuedAt    time.Time  `json:"issued_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RotatedAt   *time.Time `json:"rotated_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	RotatedFrom *string    `json:"rotated_from,omitempty"`
	ReplacedBy  *string    `json:"replaced_by,omitempty"`
	UserAgent   *string    `json:"user_agent,omitempty"`
	IP          *string    `json:"ip,omitempty"`
}

// ToSessionView reports the effective state, so an Active record past its
// window shows up as "expired" even though storage never wrote that state.
func ToSessionView(s *domain.Session, now time.Time) *SessionView {
	return &SessionView{
		JTI:         s.JTI,
		State:       domain.EffectiveState(s, now),
		IssuedAt:    s.IssuedAt,
		ExpiresAt:   s.ExpiresAt,
		RotatedAt:   s.RotatedAt,
		RevokedAt:   s.RevokedAt,
		RotatedFrom: s.RotatedFrom,
		ReplacedBy:  s.ReplacedBy,
		UserAgent:   s.UserAgent,
		IP:          s.IP,
	}
}
