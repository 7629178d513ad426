// Command libtelemetry builds the trampolines as a C shared library for hosts
// that hold telemetry callbacks only as opaque function pointers, such as
// Python ctypes CFUNCTYPE objects:
//
//	go build -buildmode=c-shared -o libtelemetry.so ./cmd/libtelemetry
//
// The exported functions do not check fn. Passing anything other than a live
// callable of the matching signature is undefined behaviour.
package main

// #include <stdint.h>
import "C"

import (
	"unsafe"

	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

//export telemetry_invoke_linkstats
func telemetry_invoke_linkstats(fn unsafe.Pointer, rssi1, rssi2 C.int32_t, lq C.uint32_t, snr C.int32_t) {
	trampoline.LinkStats(fn, int32(rssi1), int32(rssi2), uint32(lq), int32(snr))
}

//export telemetry_invoke_battery
func telemetry_invoke_battery(fn unsafe.Pointer, voltage, current, remaining C.float) {
	trampoline.Battery(fn, float32(voltage), float32(current), float32(remaining))
}

//export telemetry_invoke_gps
func telemetry_invoke_gps(fn unsafe.Pointer, lat, lon C.float, alt C.int32_t, sats C.uint32_t, speed C.float) {
	trampoline.GPS(fn, float32(lat), float32(lon), int32(alt), uint32(sats), float32(speed))
}

//export telemetry_invoke_attitude
func telemetry_invoke_attitude(fn unsafe.Pointer, pitch, roll, yaw C.float) {
	trampoline.Attitude(fn, float32(pitch), float32(roll), float32(yaw))
}

func main() {}
