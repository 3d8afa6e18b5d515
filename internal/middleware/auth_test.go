package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/domain/user"
	"search-and-destroy/internal/logger"
	"search-and-destroy/pkg/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func authTestConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 24}}
}

func authTestRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		ac, ok := GetAuthContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": ac.UserID.String(), "role": ac.Role})
	})
	router.GET("/admin", AuthMiddleware(cfg), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := authTestConfig()
	router := authTestRouter(cfg)

	userID := uuid.New()
	token, _, err := utils.GenerateToken(userID, "ana@example.com", user.RoleUser, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := doRequest(router, "/protected", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), userID.String()) {
		t.Fatalf("expected user id in response, got %s", w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := authTestRouter(authTestConfig())

	w := doRequest(router, "/protected", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := authTestRouter(authTestConfig())

	for _, header := range []string{"Bearer", "Basic abc", "token-without-scheme"} {
		w := doRequest(router, "/protected", header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthMiddlewareExpiredTokenHasDistinctMessage(t *testing.T) {
	cfg := authTestConfig()
	router := authTestRouter(cfg)

	token, _, err := utils.GenerateToken(uuid.New(), "ana@example.com", user.RoleUser, cfg.JWT.Secret, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := doRequest(router, "/protected", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "expired") {
		t.Fatalf("expected expired message, got %s", w.Body.String())
	}
}

func TestAuthMiddlewareInvalidSignature(t *testing.T) {
	cfg := authTestConfig()
	router := authTestRouter(cfg)

	token, _, err := utils.GenerateToken(uuid.New(), "ana@example.com", user.RoleUser, "other-secret", 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := doRequest(router, "/protected", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "expired") {
		t.Fatalf("invalid token should not report as expired: %s", w.Body.String())
	}
}

func TestAdminOnlyRejectsUsers(t *testing.T) {
	cfg := authTestConfig()
	router := authTestRouter(cfg)

	userToken, _, _ := utils.GenerateToken(uuid.New(), "ana@example.com", user.RoleUser, cfg.JWT.Secret, 24)
	if w := doRequest(router, "/admin", "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", w.Code)
	}

	adminToken, _, _ := utils.GenerateToken(uuid.New(), "root@example.com", user.RoleAdmin, cfg.JWT.Secret, 24)
	if w := doRequest(router, "/admin", "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", w.Code)
	}
}
