package session

import (
	"errors"
	"sync"
)

// ErrBusy is returned when an operation is started while the same kind of
// operation is still pending.
var ErrBusy = errors.New("operation already in progress")

type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation tracks one kind of asynchronous action. Only one instance of the
// action may be Pending at a time.
type Operation struct {
	mu    sync.Mutex
	state State
	err   error
}

// Begin moves to Pending. It fails with ErrBusy if already Pending.
func (o *Operation) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == Pending {
		return ErrBusy
	}
	o.state = Pending
	o.err = nil
	return nil
}

// Finish records the outcome of the pending action.
func (o *Operation) Finish(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = Failed
		o.err = err
		return
	}
	o.state = Succeeded
	o.err = nil
}

// Reset returns a settled operation to Idle. A pending one is left alone.
func (o *Operation) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == Pending {
		return
	}
	o.state = Idle
	o.err = nil
}

// Status returns the current state and, when Failed, the error.
func (o *Operation) Status() (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.err
}
