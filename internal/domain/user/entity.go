package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can own devices and issue commands.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHashed string    `gorm:"not null"`
	RecoveryPIN    string    `gorm:"column:recovery_pin;not null"`
	Role           string    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// LoginHistory records a successful sign-in. Written fire-and-forget
// after login; a failed insert never fails the login itself.
type LoginHistory struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;index;not null"`
	LoggedAt time.Time `gorm:"not null"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
