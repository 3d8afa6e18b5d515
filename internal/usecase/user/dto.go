package user

import (
	"time"

	"github.com/google/uuid"

	userDomain "search-and-destroy/internal/domain/user"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	RecoveryPIN string `json:"recovery_pin" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	RecoveryPIN *string `json:"recovery_pin"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

type HistoryEntry struct {
	LoggedAt time.Time `json:"logged_at"`
}

func ToUserResponse(u *userDomain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToUserResponses(users []userDomain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for i := range users {
		out = append(out, ToUserResponse(&users[i]))
	}
	return out
}

func ToHistoryEntries(entries []userDomain.LoginHistory) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, HistoryEntry{LoggedAt: e.LoggedAt})
	}
	return out
}
