package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"search-and-destroy/internal/domain/device"
	"search-and-destroy/internal/usecase/relay"
	"search-and-destroy/pkg/utils"
)

// RelayHandler exposes the device command endpoints.
type RelayHandler struct {
	service *relay.Service
}

func NewRelayHandler(service *relay.Service) *RelayHandler {
	return &RelayHandler{service: service}
}

func (h *RelayHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("/:id/power-on", h.PowerOn)
		devices.GET("/:id/power-off", h.PowerOff)
		devices.GET("/:id/wipe", h.Wipe)
		devices.GET("/:id/status", h.Status)
	}
}

func (h *RelayHandler) PowerOn(c *gin.Context) {
	h.issue(c, device.CommandPowerOn)
}

func (h *RelayHandler) PowerOff(c *gin.Context) {
	h.issue(c, device.CommandPowerOff)
}

func (h *RelayHandler) Wipe(c *gin.Context) {
	h.issue(c, device.CommandWipe)
}

func (h *RelayHandler) issue(c *gin.Context, cmd device.Command) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	message, err := h.service.Issue(c.Request.Context(), ac, deviceID, cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, message, nil)
}

func (h *RelayHandler) Status(c *gin.Context) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	status, err := h.service.QueryStatus(c.Request.Context(), ac, deviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status retrieved successfully", gin.H{"state": status})
}
