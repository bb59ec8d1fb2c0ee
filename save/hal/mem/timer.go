package mem

import "time"

// Timer is a wall-clock [hal.Timer] for hosted platforms. It stands in
// for the hardware countdown timer a device would supply.
type Timer struct {
	duration time.Duration
	deadline time.Time
}

// NewTimer creates a timer that elapses duration after Start is called.
func NewTimer(duration time.Duration) *Timer {
	return &Timer{duration: duration}
}

// Start arms the countdown.
func (t *Timer) Start() {
	t.deadline = time.Now().Add(t.duration)
}

// Elapsed reports whether the countdown has run out. A timer that was
// never started reports false.
func (t *Timer) Elapsed() bool {
	if t.deadline.IsZero() {
		return false
	}
	return !time.Now().Before(t.deadline)
}
