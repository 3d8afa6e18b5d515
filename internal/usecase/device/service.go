package device

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"search-and-destroy/internal/domain/auth"
	deviceDomain "search-and-destroy/internal/domain/device"
	"search-and-destroy/internal/logger"
	appErrors "search-and-destroy/pkg/errors"
	"search-and-destroy/pkg/utils"
)

// Service implements device registration, listing, deletion and location
// tracking against the Directory.
type Service struct {
	directory deviceDomain.Directory
}

func NewService(directory deviceDomain.Directory) *Service {
	return &Service{directory: directory}
}

// Register creates a device owned by the caller. Admins may register on
// behalf of another user by supplying an explicit owner id. New devices
// start powered off.
func (s *Service) Register(ctx context.Context, ac auth.Context, req *RegisterDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "brand, imei, serial and address are required", err)
	}

	ownerID := ac.UserID
	if req.OwnerID != nil {
		if !ac.IsAdmin() {
			return nil, appErrors.ErrInsufficientPermissions
		}
		parsed, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "invalid owner id", err)
		}
		ownerID = parsed
	}

	dev := &deviceDomain.Device{
		Brand:   req.Brand,
		IMEI:    req.IMEI,
		Serial:  req.Serial,
		Address: req.Address,
		OwnerID: &ownerID,
		State:   deviceDomain.StateOff,
	}
	if req.Latitude != nil {
		dev.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		dev.Longitude = *req.Longitude
	}

	if err := s.directory.Create(ctx, dev); err != nil {
		return nil, err
	}

	logger.Info("Device registered",
		zap.String("device_id", dev.ID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("brand", dev.Brand),
		zap.String("event", "device_registered"),
	)

	return ToDeviceResponse(dev), nil
}

// List returns the caller's devices, or for admins every device, scoped
// to an explicit target owner when given. An empty result reports
// ErrNoDevices rather than an empty list; the dashboard treats "nothing
// registered" as a distinct condition.
func (s *Service) List(ctx context.Context, ac auth.Context, scopeOwner *uuid.UUID) ([]*DeviceResponse, error) {
	var (
		devices []deviceDomain.Device
		err     error
	)

	switch {
	case !ac.IsAdmin():
		devices, err = s.directory.ListByOwner(ctx, ac.UserID)
	case scopeOwner != nil:
		devices, err = s.directory.ListByOwner(ctx, *scopeOwner)
	default:
		devices, err = s.directory.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, deviceDomain.ErrNoDevices
	}

	return ToDeviceResponses(devices), nil
}

// Delete removes a device unconditionally. Owner or admin only.
func (s *Service) Delete(ctx context.Context, ac auth.Context, deviceID uuid.UUID) error {
	dev, err := s.directory.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}

	if !ac.IsAdmin() && !dev.IsOwnedBy(ac.UserID) {
		return deviceDomain.ErrNotDeviceOwner
	}

	if err := s.directory.Delete(ctx, deviceID); err != nil {
		return err
	}

	logger.Info("Device deleted",
		zap.String("device_id", deviceID.String()),
		zap.String("deleted_by", ac.UserID.String()),
		zap.String("event", "device_deleted"),
	)

	return nil
}

// ReportLocation stores a device-initiated position update. The units
// carry no credentials, so this path is unauthenticated by design.
func (s *Service) ReportLocation(ctx context.Context, deviceID uuid.UUID, lat, lon float64) error {
	if err := s.directory.UpdateLocation(ctx, deviceID, lat, lon); err != nil {
		return err
	}

	logger.Debug("Device location updated",
		zap.String("device_id", deviceID.String()),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)

	return nil
}

// GetLocation returns the device record with its last known coordinates.
func (s *Service) GetLocation(ctx context.Context, ac auth.Context, deviceID uuid.UUID) (*DeviceResponse, error) {
	dev, err := s.directory.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if !ac.IsAdmin() && !dev.IsOwnedBy(ac.UserID) {
		return nil, deviceDomain.ErrNotDeviceOwner
	}

	return ToDeviceResponse(dev), nil
}
