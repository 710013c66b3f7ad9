package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
)

type User struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string        `json:"-" gorm:"not null"`
	Role         UserRole      `json:"role" gorm:"not null;default:user"`
	Name         string        `json:"name"`
	Status       AccountStatus `json:"status" gorm:"not null;default:active"`

	// ActiveSessions counts refresh sessions currently in state Active.
	// Mutated only through atomic storage-level updates, never read-modify-write;
	// clamped so it can never go negative.
	ActiveSessions int64 `json:"active_sessions" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}
