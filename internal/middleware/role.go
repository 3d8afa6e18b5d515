package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"search-and-destroy/internal/domain/user"
	"search-and-destroy/pkg/utils"
)

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAuthContext(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusForbidden, "Caller identity not found in context")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if ac.Role == allowedRole {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware(user.RoleAdmin)
}
