package returns

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid return status transition")
	ErrForbidden         = errors.New("not allowed to access this return")
	ErrReasonRequired    = errors.New("rejection reason required")
)

// InvalidTransitionError names the current status so it can be reported to the
// admin who tried the action.
type InvalidTransitionError struct {
	Current Status
	Action  string // "reject" | "receive"
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s return in status %q", e.Action, e.Current)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
