package trampoline

import (
	"errors"
	"fmt"
)

// ErrNilHandle is returned by Handle methods when the handle has no pointer.
var ErrNilHandle = errors.New("trampoline: nil handle")

// MismatchError is returned when a handle is dispatched through the entry
// point of another category.
type MismatchError struct {
	Want Category // category of the entry point
	Got  Category // category the handle was tagged with
}

func NewMismatchError(want, got Category) *MismatchError {
	return &MismatchError{Want: want, Got: got}
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("trampoline: %s handle dispatched as %s", e.Got, e.Want)
}
