package ingestion

import (
	"errors"
	"time"
)

// LocationMessage is a device-published position report from the
// sad/devices/{id}/location topic.
type LocationMessage struct {
	DeviceID  string    `json:"device_id"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidateLocationMessage rejects payloads outside the coordinate range.
func ValidateLocationMessage(msg *LocationMessage) error {
	if msg.DeviceID == "" {
		return errors.New("missing device id")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}
