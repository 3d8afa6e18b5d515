package device

import "errors"

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceAlreadyExists = errors.New("device already exists")
	ErrNotDeviceOwner      = errors.New("not the owner of this device")
	ErrNoDevices           = errors.New("no devices registered")
	ErrDeviceUnreachable   = errors.New("could not communicate with the device")
	ErrInvalidCommand      = errors.New("invalid device command")
)
