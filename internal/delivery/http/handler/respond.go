package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"search-and-destroy/internal/domain/auth"
	"search-and-destroy/internal/domain/device"
	"search-and-destroy/internal/domain/user"
	"search-and-destroy/internal/middleware"
	appErrors "search-and-destroy/pkg/errors"
	"search-and-destroy/pkg/utils"
)

// respondError converts service errors to the client-facing taxonomy.
// Internal error text never crosses the boundary; unknown failures get a
// generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, device.ErrNoDevices),
		errors.Is(err, user.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, device.ErrNotDeviceOwner),
		errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, appErrors.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, device.ErrDeviceUnreachable):
		utils.ErrorResponse(c, http.StatusInternalServerError, device.ErrDeviceUnreachable.Error())
	case errors.Is(err, user.ErrUserAlreadyExists),
		errors.Is(err, user.ErrInvalidPIN),
		errors.Is(err, device.ErrDeviceAlreadyExists),
		errors.Is(err, device.ErrInvalidCommand):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

// caller pulls the verified identity off the request, answering 401 when
// the auth middleware did not run.
func caller(c *gin.Context) (auth.Context, bool) {
	ac, ok := middleware.GetAuthContext(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, appErrors.ErrUnauthorized.Error())
	}
	return ac, ok
}
