package trampoline

import "unsafe"

// Go signatures of the four C callables.
type (
	LinkStatsFunc func(rssi1, rssi2 int32, linkQuality uint32, snr int32)
	BatteryFunc   func(voltage, current, remaining float32)
	GPSFunc       func(latitude, longitude float32, altitude int32, satellites uint32, speed float32)
	AttitudeFunc  func(pitch, roll, yaw float32)
)

// BindLinkStats returns a Go func that calls fn through the link statistics
// trampoline. A nil fn yields a nil func. The returned func borrows fn.
func BindLinkStats(fn unsafe.Pointer) LinkStatsFunc {
	if fn == nil {
		return nil
	}
	return func(rssi1, rssi2 int32, linkQuality uint32, snr int32) {
		LinkStats(fn, rssi1, rssi2, linkQuality, snr)
	}
}

// BindBattery is BindLinkStats for the battery signature.
func BindBattery(fn unsafe.Pointer) BatteryFunc {
	if fn == nil {
		return nil
	}
	return func(voltage, current, remaining float32) {
		Battery(fn, voltage, current, remaining)
	}
}

// BindGPS is BindLinkStats for the GPS signature.
func BindGPS(fn unsafe.Pointer) GPSFunc {
	if fn == nil {
		return nil
	}
	return func(latitude, longitude float32, altitude int32, satellites uint32, speed float32) {
		GPS(fn, latitude, longitude, altitude, satellites, speed)
	}
}

// BindAttitude is BindLinkStats for the attitude signature.
func BindAttitude(fn unsafe.Pointer) AttitudeFunc {
	if fn == nil {
		return nil
	}
	return func(pitch, roll, yaw float32) {
		Attitude(fn, pitch, roll, yaw)
	}
}
