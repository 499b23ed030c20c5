package view

import (
	"sync"
	"time"
)

// DebounceInterval is how long search input has to go quiet before a
// recomputation fires.
const DebounceInterval = 300 * time.Millisecond

// Debouncer coalesces a burst of triggers into one call: each Trigger
// cancels any pending task and schedules a fresh one, so only the last
// trigger within the interval actually runs. [Controller] uses it to
// hold back search recomputation while the user is still typing.
type Debouncer struct {
	interval time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DebounceInterval
	}
	return &Debouncer{interval: interval}
}

// Trigger schedules fn to run once the interval elapses with no further
// triggers. A pending task from an earlier trigger is cancelled.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending task.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
