package timeline

import "time"

// Clock is the time source used for elapsed-time accounting and for
// scheduling automatic advances. Now must carry a monotonic reading so
// that Sub stays correct across wall-clock jumps and process suspension.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable one-shot callback.
type Timer interface {
	Stop() bool
}

// systemClock is backed by the runtime timer heap.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the default Clock.
func SystemClock() Clock { return systemClock{} }
