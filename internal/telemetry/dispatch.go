package telemetry

import (
	"errors"
	"fmt"
	"math"

	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

// ErrUnknownFrame is returned for Frame implementations outside this package.
var ErrUnknownFrame = errors.New("unknown telemetry frame")

// Dispatch forwards the fields of f, in declaration order, to the callable
// behind h. h must be tagged with the category of f.
func Dispatch(h trampoline.Handle, f Frame) error {
	switch v := deref(f).(type) {
	case LinkStats:
		return h.LinkStats(v.RSSI1, v.RSSI2, v.LinkQuality, v.SNR)
	case Battery:
		return h.Battery(v.Voltage, v.Current, v.Remaining)
	case GPS:
		return h.GPS(v.Latitude, v.Longitude, v.Altitude, v.Satellites, v.GroundSpeed)
	case Attitude:
		return h.Attitude(v.Pitch, v.Roll, v.Yaw)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownFrame, f)
	}
}

// Equal reports whether a and b are the same category with bit-identical
// fields. Floats are compared by bit pattern, so NaN equals an identical NaN
// and 0 differs from -0.
func Equal(a, b Frame) bool {
	a, b = deref(a), deref(b)

	switch x := a.(type) {
	case LinkStats:
		y, ok := b.(LinkStats)
		return ok && x == y

	case Battery:
		y, ok := b.(Battery)
		return ok &&
			sameBits(x.Voltage, y.Voltage) &&
			sameBits(x.Current, y.Current) &&
			sameBits(x.Remaining, y.Remaining)

	case GPS:
		y, ok := b.(GPS)
		return ok &&
			sameBits(x.Latitude, y.Latitude) &&
			sameBits(x.Longitude, y.Longitude) &&
			x.Altitude == y.Altitude &&
			x.Satellites == y.Satellites &&
			sameBits(x.GroundSpeed, y.GroundSpeed)

	case Attitude:
		y, ok := b.(Attitude)
		return ok &&
			sameBits(x.Pitch, y.Pitch) &&
			sameBits(x.Roll, y.Roll) &&
			sameBits(x.Yaw, y.Yaw)
	}

	return false
}

func deref(f Frame) Frame {
	switch v := f.(type) {
	case *LinkStats:
		if v != nil {
			return *v
		}
	case *Battery:
		if v != nil {
			return *v
		}
	case *GPS:
		if v != nil {
			return *v
		}
	case *Attitude:
		if v != nil {
			return *v
		}
	default:
		return f
	}
	return nil
}

func sameBits(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}
