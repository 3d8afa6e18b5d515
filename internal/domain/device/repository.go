package device

import (
	"context"

	"github.com/google/uuid"
)

// Directory is the persistent registry of devices the relay reads and writes.
type Directory interface {
	Create(ctx context.Context, device *Device) error
	GetByID(ctx context.Context, deviceID uuid.UUID) (*Device, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Device, error)
	ListAll(ctx context.Context) ([]Device, error)
	UpdateState(ctx context.Context, deviceID uuid.UUID, state State) error
	UpdateLocation(ctx context.Context, deviceID uuid.UUID, lat, lon float64) error
	Delete(ctx context.Context, deviceID uuid.UUID) error
}
