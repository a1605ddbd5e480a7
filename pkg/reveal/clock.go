package reveal

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback has
	// already fired or been stopped.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules with time.AfterFunc. Callbacks run on their own
// goroutine; wrap it in DispatchClock to bring them back onto a loop.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// DispatchClock delivers every callback through Dispatch, typically a
// session's event-loop queue.
type DispatchClock struct {
	Clock    Clock
	Dispatch func(func())
}

// AfterFunc implements Clock.
func (c DispatchClock) AfterFunc(d time.Duration, f func()) Timer {
	inner := c.Clock
	if inner == nil {
		inner = SystemClock{}
	}
	return inner.AfterFunc(d, func() { c.Dispatch(f) })
}
