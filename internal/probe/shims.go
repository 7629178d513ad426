package probe

/*
#include <stdint.h>

extern void probeRecordLinkStats(int, int32_t, int32_t, uint32_t, int32_t);
extern void probeRecordBattery(int, float, float, float);
extern void probeRecordGPS(int, float, float, int32_t, uint32_t, float);
extern void probeRecordAttitude(int, float, float, float);

#define PROBE_SLOT(n) \
	static void probe_linkstats_##n(int32_t rssi1, int32_t rssi2, uint32_t lq, int32_t snr) { \
		probeRecordLinkStats(n, rssi1, rssi2, lq, snr); \
	} \
	static void probe_battery_##n(float voltage, float current, float remaining) { \
		probeRecordBattery(n, voltage, current, remaining); \
	} \
	static void probe_gps_##n(float lat, float lon, int32_t alt, uint32_t sats, float speed) { \
		probeRecordGPS(n, lat, lon, alt, sats, speed); \
	} \
	static void probe_attitude_##n(float pitch, float roll, float yaw) { \
		probeRecordAttitude(n, pitch, roll, yaw); \
	}

PROBE_SLOT(0)
PROBE_SLOT(1)
PROBE_SLOT(2)
PROBE_SLOT(3)
PROBE_SLOT(4)
PROBE_SLOT(5)
PROBE_SLOT(6)
PROBE_SLOT(7)

#define PROBE_TABLE(kind) { \
	(void *)probe_##kind##_0, (void *)probe_##kind##_1, (void *)probe_##kind##_2, (void *)probe_##kind##_3, \
	(void *)probe_##kind##_4, (void *)probe_##kind##_5, (void *)probe_##kind##_6, (void *)probe_##kind##_7 }

static void *probe_linkstats_fns[] = PROBE_TABLE(linkstats);
static void *probe_battery_fns[] = PROBE_TABLE(battery);
static void *probe_gps_fns[] = PROBE_TABLE(gps);
static void *probe_attitude_fns[] = PROBE_TABLE(attitude);

static void *probe_linkstats(int slot) { return probe_linkstats_fns[slot]; }
static void *probe_battery(int slot) { return probe_battery_fns[slot]; }
static void *probe_gps(int slot) { return probe_gps_fns[slot]; }
static void *probe_attitude(int slot) { return probe_attitude_fns[slot]; }
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

// Slots is the number of distinct probe callables per category.
const Slots = 8

// Pointer returns the C function pointer of the probe for category and slot.
func Pointer(category trampoline.Category, slot int) (unsafe.Pointer, error) {
	if slot < 0 || slot >= Slots {
		return nil, fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}

	s := C.int(slot)
	switch category {
	case trampoline.CategoryLinkStats:
		return C.probe_linkstats(s), nil
	case trampoline.CategoryBattery:
		return C.probe_battery(s), nil
	case trampoline.CategoryGPS:
		return C.probe_gps(s), nil
	case trampoline.CategoryAttitude:
		return C.probe_attitude(s), nil
	default:
		return nil, fmt.Errorf("probe: no callable for %s", category)
	}
}

// Handle is Pointer wrapped in a handle tagged with category.
func Handle(category trampoline.Category, slot int) (trampoline.Handle, error) {
	fn, err := Pointer(category, slot)
	if err != nil {
		return trampoline.Handle{}, err
	}
	return trampoline.NewHandle(category, fn), nil
}
