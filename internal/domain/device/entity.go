package device

import (
	"time"

	"github.com/google/uuid"
)

// Device represents a registered anti-theft unit addressable over the network.
type Device struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Brand     string     `gorm:"not null"`
	IMEI      string     `gorm:"column:imei;uniqueIndex;not null"`
	Serial    string     `gorm:"not null"`
	Address   string     `gorm:"not null"`
	OwnerID   *uuid.UUID `gorm:"type:uuid;index"`
	State     State      `gorm:"type:varchar(8);not null"`
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State is the Directory's last-recorded power state for a device.
// It is advisory: written after a command succeeds, never verified
// against the physical unit except via an explicit status query.
type State string

const (
	StateOn  State = "on"
	StateOff State = "off"
)

// Command is a remote instruction a caller can issue to a device.
type Command string

const (
	CommandPowerOn  Command = "power-on"
	CommandPowerOff Command = "power-off"
	CommandWipe     Command = "wipe"
)

// ResultingState returns the cached state a successful command leaves behind.
// A wipe powers the unit down as a side effect.
func (c Command) ResultingState() State {
	if c == CommandPowerOn {
		return StateOn
	}
	return StateOff
}

// IsOwnedBy reports whether the device belongs to the given user.
func (d *Device) IsOwnedBy(userID uuid.UUID) bool {
	return d.OwnerID != nil && *d.OwnerID == userID
}
