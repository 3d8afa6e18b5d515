package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"search-and-destroy/internal/database"
	"search-and-destroy/internal/domain/device"
	appErrors "search-and-destroy/pkg/errors"
)

// DeviceRepository is the gorm-backed Device Directory.
type DeviceRepository struct {
	db *database.Database
}

func NewDeviceRepository(db *database.Database) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *device.Device) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(d).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return appErrors.NewAppError("DEVICE_ALREADY_EXISTS", "Device with this IMEI already exists", device.ErrDeviceAlreadyExists)
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (*device.Device, error) {
	var d device.Device
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", deviceID).
		First(&d).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, device.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return &d, nil
}

func (r *DeviceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]device.Device, error) {
	var devices []device.Device
	err := r.db.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepository) ListAll(ctx context.Context) ([]device.Device, error) {
	var devices []device.Device
	err := r.db.DB.WithContext(ctx).
		Order("created_at").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepository) UpdateState(ctx context.Context, deviceID uuid.UUID, state device.State) error {
	result := r.db.DB.WithContext(ctx).
		Model(&device.Device{}).
		Where("id = ?", deviceID).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) UpdateLocation(ctx context.Context, deviceID uuid.UUID, lat, lon float64) error {
	result := r.db.DB.WithContext(ctx).
		Model(&device.Device{}).
		Where("id = ?", deviceID).
		Updates(map[string]interface{}{
			"latitude":   lat,
			"longitude":  lon,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update location: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) Delete(ctx context.Context, deviceID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", deviceID).
		Delete(&device.Device{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete device: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}
