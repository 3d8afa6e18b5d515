package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"search-and-destroy/internal/usecase/device"
	"search-and-destroy/pkg/utils"
)

type DeviceHandler struct {
	service *device.Service
}

func NewDeviceHandler(service *device.Service) *DeviceHandler {
	return &DeviceHandler{service: service}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.POST("", h.RegisterDevice)
		devices.DELETE("/:id", h.DeleteDevice)
		devices.GET("/:id/location", h.GetLocation)
	}
}

// RegisterPublicRoutes wires the device-initiated location push. The
// units carry no credentials, so this endpoint is unauthenticated.
func (h *DeviceHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/devices/:id/report-location", h.ReportLocation)
}

func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	var req device.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	dev, err := h.service.Register(c.Request.Context(), ac, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Device registered successfully", dev)
}

func (h *DeviceHandler) ListDevices(c *gin.Context) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	var scopeOwner *uuid.UUID
	if owner := c.Query("owner"); owner != "" {
		parsed, err := uuid.Parse(owner)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid owner ID")
			return
		}
		scopeOwner = &parsed
	}

	devices, err := h.service.List(c.Request.Context(), ac, scopeOwner)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", gin.H{"devices": devices})
}

func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), ac, deviceID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device deleted successfully", nil)
}

func (h *DeviceHandler) ReportLocation(c *gin.Context) {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing location coordinates")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid longitude")
		return
	}

	if err := h.service.ReportLocation(c.Request.Context(), deviceID, lat, lon); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location updated successfully", nil)
}

func (h *DeviceHandler) GetLocation(c *gin.Context) {
	ac, ok := caller(c)
	if !ok {
		return
	}

	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	dev, err := h.service.GetLocation(c.Request.Context(), ac, deviceID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Location retrieved successfully", dev)
}
