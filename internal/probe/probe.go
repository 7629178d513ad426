// Package probe provides C callables that record the arguments they are
// called with. Each category has Slots distinct callables, one per slot, so
// concurrent callers can tell their calls apart.
package probe

import (
	"errors"
	"sync"

	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
)

// ErrSlotOutOfRange is returned for slots outside [0, Slots).
var ErrSlotOutOfRange = errors.New("probe: slot out of range")

var (
	mu    sync.Mutex
	calls [Slots][]telemetry.Frame
)

func record(slot int, f telemetry.Frame) {
	if slot < 0 || slot >= Slots {
		return
	}

	mu.Lock()
	calls[slot] = append(calls[slot], f)
	mu.Unlock()
}

// Calls returns a copy of the frames recorded by slot in arrival order.
// Calls of every category share the slot's log.
func Calls(slot int) []telemetry.Frame {
	if slot < 0 || slot >= Slots {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	out := make([]telemetry.Frame, len(calls[slot]))
	copy(out, calls[slot])
	return out
}

// Drain returns and clears the frames recorded by slot.
func Drain(slot int) []telemetry.Frame {
	if slot < 0 || slot >= Slots {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	out := calls[slot]
	calls[slot] = nil
	return out
}

// Reset clears every slot.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	for i := range calls {
		calls[i] = nil
	}
}
