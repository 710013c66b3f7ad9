package domain

import "time"

// SessionState is the lifecycle state of a refresh session.
//
// Active is the only non-terminal state. Rotated and Revoked are sinks:
// a session that left Active can never come back. Expiry is computed from
// ExpiresAt rather than stored, so a record can be Active in the database
// and still invalid because its window has passed.
type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionRotated SessionState = "rotated"
	SessionRevoked SessionState = "revoked"
)

// Session stores one refresh session per device.
//
// Security notes:
// - The raw refresh credential is never persisted; the session is keyed by
//   the jti claim embedded in the signed token.
// - On refresh the session is rotated: the old record flips to Rotated and a
//   successor is created with RotatedFrom pointing back, forming a chain in
//   which only the newest node may be Active.
type Session struct {
	JTI    string `json:"jti" gorm:"column:jti;primaryKey;size:36"`
	UserID int64  `json:"user_id" gorm:"index;not null"`
	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	State SessionState `json:"state" gorm:"index;not null;default:active"`

	IssuedAt  time.Time `json:"issued_at" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`

	RotatedAt *time.Time `json:"rotated_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`

	// RotatedFrom references the predecessor in the rotation chain.
	RotatedFrom *string `json:"rotated_from,omitempty" gorm:"size:36;index"`
	// ReplacedBy references the successor once this session has been rotated.
	ReplacedBy *string `json:"replaced_by,omitempty" gorm:"size:36"`

	// Device metadata, audit display only. Never used for authorization.
	UserAgent *string `json:"user_agent,omitempty"`
	IP        *string `json:"ip,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "sessions" }

// IsExpired reports whether the validity window has passed at the given instant.
func IsExpired(s *Session, now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsUsable reports whether the session may still authorize a refresh:
// state Active and validity window not yet passed.
func IsUsable(s *Session, now time.Time) bool {
	return s.State == SessionActive && !IsExpired(s, now)
}

// EffectiveState resolves the lazily computed Expired state for audit views:
// an Active record past its window is reported as "expired".
func EffectiveState(s *Session, now time.Time) string {
	if s.State == SessionActive && IsExpired(s, now) {
		return "expired"
	}
	return string(s.State)
}

// SessionStats aggregates session counts across all accounts.
type SessionStats struct {
	TotalActive  int64 `json:"total_active"`
	TotalRotated int64 `json:"total_rotated"`
	TotalRevoked int64 `json:"total_revoked"`
	TotalExpired int64 `json:"total_expired"`
	Total        int64 `json:"total"`
}
