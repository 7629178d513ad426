package trampoline

import "unsafe"

// Handle is an opaque function pointer tagged with the category it was
// created for. The pointer is borrowed: Handle neither owns nor frees it.
type Handle struct {
	category Category
	fn       unsafe.Pointer
}

// NewHandle tags fn with category. Nothing about fn is verified.
func NewHandle(category Category, fn unsafe.Pointer) Handle {
	return Handle{category: category, fn: fn}
}

func (h Handle) Category() Category {
	return h.category
}

func (h Handle) Pointer() unsafe.Pointer {
	return h.fn
}

// IsZero reports whether h holds no pointer.
func (h Handle) IsZero() bool {
	return h.fn == nil
}

func (h Handle) check(want Category) error {
	if h.fn == nil {
		return ErrNilHandle
	}
	if h.category != want {
		return NewMismatchError(want, h.category)
	}
	return nil
}

// LinkStats dispatches through the link statistics trampoline.
func (h Handle) LinkStats(rssi1, rssi2 int32, linkQuality uint32, snr int32) error {
	if err := h.check(CategoryLinkStats); err != nil {
		return err
	}
	LinkStats(h.fn, rssi1, rssi2, linkQuality, snr)
	return nil
}

// Battery dispatches through the battery trampoline.
func (h Handle) Battery(voltage, current, remaining float32) error {
	if err := h.check(CategoryBattery); err != nil {
		return err
	}
	Battery(h.fn, voltage, current, remaining)
	return nil
}

// GPS dispatches through the GPS trampoline.
func (h Handle) GPS(latitude, longitude float32, altitude int32, satellites uint32, speed float32) error {
	if err := h.check(CategoryGPS); err != nil {
		return err
	}
	GPS(h.fn, latitude, longitude, altitude, satellites, speed)
	return nil
}

// Attitude dispatches through the attitude trampoline.
func (h Handle) Attitude(pitch, roll, yaw float32) error {
	if err := h.check(CategoryAttitude); err != nil {
		return err
	}
	Attitude(h.fn, pitch, roll, yaw)
	return nil
}
