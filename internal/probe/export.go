package probe

// #include <stdint.h>
import "C"

import (
	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
)

// Exported recorders. The C shims in shims.go call these with their slot
// number, the preamble here may only hold declarations.

//export probeRecordLinkStats
func probeRecordLinkStats(slot C.int, rssi1, rssi2 C.int32_t, lq C.uint32_t, snr C.int32_t) {
	record(int(slot), telemetry.LinkStats{
		RSSI1:       int32(rssi1),
		RSSI2:       int32(rssi2),
		LinkQuality: uint32(lq),
		SNR:         int32(snr),
	})
}

//export probeRecordBattery
func probeRecordBattery(slot C.int, voltage, current, remaining C.float) {
	record(int(slot), telemetry.Battery{
		Voltage:   float32(voltage),
		Current:   float32(current),
		Remaining: float32(remaining),
	})
}

//export probeRecordGPS
func probeRecordGPS(slot C.int, lat, lon C.float, alt C.int32_t, sats C.uint32_t, speed C.float) {
	record(int(slot), telemetry.GPS{
		Latitude:    float32(lat),
		Longitude:   float32(lon),
		Altitude:    int32(alt),
		Satellites:  uint32(sats),
		GroundSpeed: float32(speed),
	})
}

//export probeRecordAttitude
func probeRecordAttitude(slot C.int, pitch, roll, yaw C.float) {
	record(int(slot), telemetry.Attitude{
		Pitch: float32(pitch),
		Roll:  float32(roll),
		Yaw:   float32(yaw),
	})
}
