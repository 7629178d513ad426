package trampoline

/*
#include <stdint.h>

typedef void (*linkstats_fn)(int32_t rssi1, int32_t rssi2, uint32_t lq, int32_t snr);
typedef void (*battery_fn)(float voltage, float current, float remaining);
typedef void (*gps_fn)(float lat, float lon, int32_t alt, uint32_t sats, float speed);
typedef void (*attitude_fn)(float pitch, float roll, float yaw);

static inline void call_linkstats(void *fn, int32_t rssi1, int32_t rssi2, uint32_t lq, int32_t snr) {
	((linkstats_fn)fn)(rssi1, rssi2, lq, snr);
}

static inline void call_battery(void *fn, float voltage, float current, float remaining) {
	((battery_fn)fn)(voltage, current, remaining);
}

static inline void call_gps(void *fn, float lat, float lon, int32_t alt, uint32_t sats, float speed) {
	((gps_fn)fn)(lat, lon, alt, sats, speed);
}

static inline void call_attitude(void *fn, float pitch, float roll, float yaw) {
	((attitude_fn)fn)(pitch, roll, yaw);
}
*/
import "C"

import "unsafe"

// LinkStats calls fn as void(int32_t rssi1, int32_t rssi2, uint32_t lq, int32_t snr).
func LinkStats(fn unsafe.Pointer, rssi1, rssi2 int32, linkQuality uint32, snr int32) {
	C.call_linkstats(fn, C.int32_t(rssi1), C.int32_t(rssi2), C.uint32_t(linkQuality), C.int32_t(snr))
}

// Battery calls fn as void(float voltage, float current, float remaining).
func Battery(fn unsafe.Pointer, voltage, current, remaining float32) {
	C.call_battery(fn, C.float(voltage), C.float(current), C.float(remaining))
}

// GPS calls fn as void(float lat, float lon, int32_t alt, uint32_t sats, float speed).
func GPS(fn unsafe.Pointer, latitude, longitude float32, altitude int32, satellites uint32, speed float32) {
	C.call_gps(fn, C.float(latitude), C.float(longitude), C.int32_t(altitude), C.uint32_t(satellites), C.float(speed))
}

// Attitude calls fn as void(float pitch, float roll, float yaw).
func Attitude(fn unsafe.Pointer, pitch, roll, yaw float32) {
	C.call_attitude(fn, C.float(pitch), C.float(roll), C.float(yaw))
}
