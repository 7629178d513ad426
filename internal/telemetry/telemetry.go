package telemetry

import (
	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

// Frame is one argument tuple of a telemetry category.
type Frame interface {
	Category() trampoline.Category
}

// LinkStats is the radio link statistics reported by the receiver
type LinkStats struct {
	RSSI1       int32  `json:"rssi1" yaml:"rssi1"`             // Antenna 1 RSSI in dBm
	RSSI2       int32  `json:"rssi2" yaml:"rssi2"`             // Antenna 2 RSSI in dBm
	LinkQuality uint32 `json:"linkQuality" yaml:"linkQuality"` // Uplink link quality in percent
	SNR         int32  `json:"snr" yaml:"snr"`                 // Signal-to-noise ratio in dB
}

// Battery is the flight pack sensor reading
type Battery struct {
	Voltage   float32 `json:"voltage" yaml:"voltage"`     // Pack voltage in volts
	Current   float32 `json:"current" yaml:"current"`     // Current draw in amperes
	Remaining float32 `json:"remaining" yaml:"remaining"` // Remaining capacity in percent
}

// GPS is a position fix
type GPS struct {
	Latitude    float32 `json:"latitude" yaml:"latitude"`       // Latitude in degrees
	Longitude   float32 `json:"longitude" yaml:"longitude"`     // Longitude in degrees
	Altitude    int32   `json:"altitude" yaml:"altitude"`       // Altitude in meters
	Satellites  uint32  `json:"satellites" yaml:"satellites"`   // Satellites in view
	GroundSpeed float32 `json:"groundSpeed" yaml:"groundSpeed"` // Ground speed in m/s
}

// Attitude is the aircraft orientation
type Attitude struct {
	Pitch float32 `json:"pitch" yaml:"pitch"` // Pitch angle in degrees
	Roll  float32 `json:"roll" yaml:"roll"`   // Roll angle in degrees
	Yaw   float32 `json:"yaw" yaml:"yaw"`     // Yaw angle in degrees
}

func (LinkStats) Category() trampoline.Category { return trampoline.CategoryLinkStats }
func (Battery) Category() trampoline.Category   { return trampoline.CategoryBattery }
func (GPS) Category() trampoline.Category       { return trampoline.CategoryGPS }
func (Attitude) Category() trampoline.Category  { return trampoline.CategoryAttitude }
