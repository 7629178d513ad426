package trampoline_test

import (
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/telemetry-bridge/internal/probe"
	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

func pointer(t *testing.T, c trampoline.Category, slot int) unsafe.Pointer {
	t.Helper()
	fn, err := probe.Pointer(c, slot)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn
}

func TestLinkStats(t *testing.T) {
	probe.Reset()

	trampoline.LinkStats(pointer(t, trampoline.CategoryLinkStats, 0), -42, -50, 98, 12)

	assert.Equal(t, []telemetry.Frame{
		telemetry.LinkStats{RSSI1: -42, RSSI2: -50, LinkQuality: 98, SNR: 12},
	}, probe.Calls(0))
}

func TestBattery(t *testing.T) {
	probe.Reset()

	trampoline.Battery(pointer(t, trampoline.CategoryBattery, 0), 16.8, -2.5, 87.0)

	assert.Equal(t, []telemetry.Frame{
		telemetry.Battery{Voltage: 16.8, Current: -2.5, Remaining: 87.0},
	}, probe.Calls(0))
}

func TestGPS(t *testing.T) {
	probe.Reset()

	trampoline.GPS(pointer(t, trampoline.CategoryGPS, 0), 37.7749, -122.4194, 30, 9, 4.2)

	assert.Equal(t, []telemetry.Frame{
		telemetry.GPS{Latitude: 37.7749, Longitude: -122.4194, Altitude: 30, Satellites: 9, GroundSpeed: 4.2},
	}, probe.Calls(0))
}

func TestAttitude(t *testing.T) {
	probe.Reset()

	trampoline.Attitude(pointer(t, trampoline.CategoryAttitude, 0), 1.5, -0.3, 179.9)

	assert.Equal(t, []telemetry.Frame{
		telemetry.Attitude{Pitch: 1.5, Roll: -0.3, Yaw: 179.9},
	}, probe.Calls(0))
}

func TestExtremeValuesAreForwardedUnchanged(t *testing.T) {
	probe.Reset()

	nan := math.Float32frombits(0x7fc00001)
	negZero := float32(math.Copysign(0, -1))

	trampoline.LinkStats(pointer(t, trampoline.CategoryLinkStats, 1), math.MinInt32, math.MaxInt32, math.MaxUint32, 0)
	trampoline.Battery(pointer(t, trampoline.CategoryBattery, 1), nan, negZero, float32(math.Inf(1)))
	trampoline.GPS(pointer(t, trampoline.CategoryGPS, 1), math.SmallestNonzeroFloat32, -math.MaxFloat32, math.MinInt32, math.MaxUint32, 0)
	trampoline.Attitude(pointer(t, trampoline.CategoryAttitude, 1), float32(math.Inf(-1)), nan, negZero)

	want := []telemetry.Frame{
		telemetry.LinkStats{RSSI1: math.MinInt32, RSSI2: math.MaxInt32, LinkQuality: math.MaxUint32},
		telemetry.Battery{Voltage: nan, Current: negZero, Remaining: float32(math.Inf(1))},
		telemetry.GPS{Latitude: math.SmallestNonzeroFloat32, Longitude: -math.MaxFloat32, Altitude: math.MinInt32, Satellites: math.MaxUint32},
		telemetry.Attitude{Pitch: float32(math.Inf(-1)), Roll: nan, Yaw: negZero},
	}

	got := probe.Calls(1)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, telemetry.Equal(want[i], got[i]), "call %d: want %#v, got %#v", i, want[i], got[i])
	}
}

func TestRepeatedCallsCarryNoState(t *testing.T) {
	probe.Reset()

	fn := pointer(t, trampoline.CategoryAttitude, 2)
	trampoline.Attitude(fn, 1.5, -0.3, 179.9)
	trampoline.Attitude(fn, 1.5, -0.3, 179.9)

	calls := probe.Calls(2)
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
}

func TestConcurrentDispatch(t *testing.T) {
	probe.Reset()

	const perSlot = 200

	var wg sync.WaitGroup
	for slot := 0; slot < probe.Slots; slot++ {
		category := trampoline.Categories()[slot%len(trampoline.Categories())]
		fn := pointer(t, category, slot)

		wg.Add(1)
		go func(slot int, category trampoline.Category, fn unsafe.Pointer) {
			defer wg.Done()

			for i := 0; i < perSlot; i++ {
				n := int32(slot*perSlot + i)
				switch category {
				case trampoline.CategoryLinkStats:
					trampoline.LinkStats(fn, n, -n, uint32(slot), int32(i))
				case trampoline.CategoryBattery:
					trampoline.Battery(fn, float32(n), float32(slot), float32(i))
				case trampoline.CategoryGPS:
					trampoline.GPS(fn, float32(n), float32(slot), n, uint32(i), float32(i))
				case trampoline.CategoryAttitude:
					trampoline.Attitude(fn, float32(n), float32(slot), float32(i))
				}
			}
		}(slot, category, fn)
	}
	wg.Wait()

	for slot := 0; slot < probe.Slots; slot++ {
		calls := probe.Calls(slot)
		require.Len(t, calls, perSlot, "slot %d", slot)

		category := trampoline.Categories()[slot%len(trampoline.Categories())]
		for i, call := range calls {
			n := int32(slot*perSlot + i)

			var want telemetry.Frame
			switch category {
			case trampoline.CategoryLinkStats:
				want = telemetry.LinkStats{RSSI1: n, RSSI2: -n, LinkQuality: uint32(slot), SNR: int32(i)}
			case trampoline.CategoryBattery:
				want = telemetry.Battery{Voltage: float32(n), Current: float32(slot), Remaining: float32(i)}
			case trampoline.CategoryGPS:
				want = telemetry.GPS{Latitude: float32(n), Longitude: float32(slot), Altitude: n, Satellites: uint32(i), GroundSpeed: float32(i)}
			case trampoline.CategoryAttitude:
				want = telemetry.Attitude{Pitch: float32(n), Roll: float32(slot), Yaw: float32(i)}
			}
			assert.Equal(t, want, call, "slot %d call %d", slot, i)
		}
	}
}
