package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context) ([]User, error)
}

// HistoryRepository persists login history entries.
type HistoryRepository interface {
	Record(ctx context.Context, entry *LoginHistory) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]LoginHistory, error)
}
