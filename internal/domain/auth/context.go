package auth

import (
	"github.com/google/uuid"

	"search-and-destroy/internal/domain/user"
)

// Context is the verified caller identity produced once by the token
// middleware and passed by value into every protected operation.
type Context struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (c Context) IsAdmin() bool {
	return c.Role == user.RoleAdmin
}
