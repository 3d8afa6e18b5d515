package device

import (
	"time"

	"github.com/google/uuid"

	deviceDomain "search-and-destroy/internal/domain/device"
)

// RegisterDeviceRequest carries the mandatory identification fields for a
// new device. OwnerID is honored for admin callers only.
type RegisterDeviceRequest struct {
	Brand     string   `json:"brand" validate:"required"`
	IMEI      string   `json:"imei" validate:"required"`
	Serial    string   `json:"serial" validate:"required"`
	Address   string   `json:"address" validate:"required"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lon"`
	OwnerID   *string  `json:"owner_id"`
}

type DeviceResponse struct {
	ID        uuid.UUID  `json:"id"`
	Brand     string     `json:"brand"`
	IMEI      string     `json:"imei"`
	Serial    string     `json:"serial"`
	Address   string     `json:"address"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	State     string     `json:"state"`
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lon"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToDeviceResponse(d *deviceDomain.Device) *DeviceResponse {
	return &DeviceResponse{
		ID:        d.ID,
		Brand:     d.Brand,
		IMEI:      d.IMEI,
		Serial:    d.Serial,
		Address:   d.Address,
		OwnerID:   d.OwnerID,
		State:     string(d.State),
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		CreatedAt: d.CreatedAt,
	}
}

func ToDeviceResponses(devices []deviceDomain.Device) []*DeviceResponse {
	out := make([]*DeviceResponse, 0, len(devices))
	for i := range devices {
		out = append(out, ToDeviceResponse(&devices[i]))
	}
	return out
}
