// pkg/session/control.go

package session

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when an action is started while the same action is running.
var ErrBusy = errors.New("session: action already in progress")

// Control is the switch behind one export action. It is held for the whole
// run of the action so the action cannot be started twice at once.
type Control struct {
	busy atomic.Bool
}

// Busy reports whether the action is running.
func (c *Control) Busy() bool {
	return c.busy.Load()
}

// acquire disables the control and returns the function that enables it again.
func (c *Control) acquire() (release func(), err error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { c.busy.Store(false) }, nil
}
