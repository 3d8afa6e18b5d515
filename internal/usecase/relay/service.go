package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"search-and-destroy/internal/domain/auth"
	"search-and-destroy/internal/domain/device"
	"search-and-destroy/internal/logger"
)

// PowerStatus is the classified answer of a status query, in the words
// the deployed clients and firmware expect.
type PowerStatus string

const (
	PowerStatusOn  PowerStatus = "encendido"
	PowerStatusOff PowerStatus = "apagado"
)

const stateCacheTimeout = 5 * time.Second

// Transport sends instructions to a physical unit.
type Transport interface {
	SendCommand(ctx context.Context, address string, cmd device.Command) error
	QueryStatus(ctx context.Context, address string) (string, error)
}

// Directory is the subset of the device registry the relay touches.
type Directory interface {
	GetByID(ctx context.Context, deviceID uuid.UUID) (*device.Device, error)
	UpdateState(ctx context.Context, deviceID uuid.UUID, state device.State) error
}

// Service relays authenticated user intent to devices: resolve the unit,
// authorize the caller, send a single outbound request and report back.
type Service struct {
	directory Directory
	transport Transport
	locks     *keyedLock
}

func NewService(directory Directory, transport Transport) *Service {
	return &Service{
		directory: directory,
		transport: transport,
		locks:     newKeyedLock(),
	}
}

// Issue sends a command to a device. The caller must be its owner or an
// admin. On transport success the Directory's cached state is updated
// best-effort in the background; a failed cache write never reaches the
// caller and never undoes the command.
func (s *Service) Issue(ctx context.Context, ac auth.Context, deviceID uuid.UUID, cmd device.Command) (string, error) {
	dev, err := s.resolve(ctx, ac, deviceID)
	if err != nil {
		return "", err
	}

	unlock := s.locks.Lock(deviceID)
	defer unlock()

	if err := s.transport.SendCommand(ctx, dev.Address, cmd); err != nil {
		logger.Error("Device command failed",
			zap.String("device_id", deviceID.String()),
			zap.String("command", string(cmd)),
			zap.String("address", dev.Address),
			zap.Error(err),
		)
		return "", err
	}

	newState := cmd.ResultingState()
	go s.cacheState(deviceID, newState)

	logger.Info("Device command relayed",
		zap.String("device_id", deviceID.String()),
		zap.String("command", string(cmd)),
		zap.String("state", string(newState)),
		zap.String("event", "device_command"),
	)

	return commandMessage(deviceID, cmd), nil
}

// QueryStatus asks the unit for its power state. The firmware answers
// with free text; any body containing "ON" counts as powered. The cached
// Directory state is left untouched: re-syncing it is the client's call.
func (s *Service) QueryStatus(ctx context.Context, ac auth.Context, deviceID uuid.UUID) (PowerStatus, error) {
	dev, err := s.resolve(ctx, ac, deviceID)
	if err != nil {
		return "", err
	}

	body, err := s.transport.QueryStatus(ctx, dev.Address)
	if err != nil {
		logger.Error("Device status query failed",
			zap.String("device_id", deviceID.String()),
			zap.String("address", dev.Address),
			zap.Error(err),
		)
		return "", err
	}

	return ClassifyStatus(body), nil
}

// ClassifyStatus maps a raw firmware body to a power status by substring
// match, preserved bug-for-bug for compatibility with deployed units
// (a body of "DONE" classifies as powered on).
func ClassifyStatus(body string) PowerStatus {
	if strings.Contains(body, "ON") {
		return PowerStatusOn
	}
	return PowerStatusOff
}

// resolve looks the device up and enforces the owner-or-admin policy.
// Authorization is checked before any outbound traffic.
func (s *Service) resolve(ctx context.Context, ac auth.Context, deviceID uuid.UUID) (*device.Device, error) {
	dev, err := s.directory.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if !ac.IsAdmin() && !dev.IsOwnedBy(ac.UserID) {
		return nil, device.ErrNotDeviceOwner
	}

	return dev, nil
}

// cacheState writes the advisory state on a detached context so a slow
// store cannot hold up the response that is already on its way out.
func (s *Service) cacheState(deviceID uuid.UUID, state device.State) {
	ctx, cancel := context.WithTimeout(context.Background(), stateCacheTimeout)
	defer cancel()

	if err := s.directory.UpdateState(ctx, deviceID, state); err != nil {
		logger.Warn("Failed to cache device state",
			zap.String("device_id", deviceID.String()),
			zap.String("state", string(state)),
			zap.Error(err),
		)
	}
}

func commandMessage(deviceID uuid.UUID, cmd device.Command) string {
	switch cmd {
	case device.CommandPowerOn:
		return fmt.Sprintf("Device %s powered on successfully", deviceID)
	case device.CommandPowerOff:
		return fmt.Sprintf("Device %s powered off successfully", deviceID)
	default:
		return fmt.Sprintf("Device %s wiped successfully", deviceID)
	}
}
