package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/domain/auth"
	appErrors "search-and-destroy/pkg/errors"
	"search-and-destroy/pkg/utils"
)

const authContextKey = "auth_context"

// AuthMiddleware verifies the bearer token and attaches a single
// auth.Context value for downstream handlers. Expired tokens get their
// own message so the client can prompt a fresh sign-in.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrTokenMissing.Error())
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrTokenMalformed.Error())
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWT.Secret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrTokenInvalid.Error())
			c.Abort()
			return
		}

		c.Set(authContextKey, auth.Context{
			UserID: userID,
			Email:  claims.Email,
			Role:   claims.Role,
		})

		c.Next()
	}
}

// GetAuthContext retrieves the verified caller identity set by
// AuthMiddleware.
func GetAuthContext(c *gin.Context) (auth.Context, bool) {
	v, exists := c.Get(authContextKey)
	if !exists {
		return auth.Context{}, false
	}
	ac, ok := v.(auth.Context)
	return ac, ok
}

// SetAuthContext injects a caller identity directly. Test helper.
func SetAuthContext(c *gin.Context, ac auth.Context) {
	c.Set(authContextKey, ac)
}
