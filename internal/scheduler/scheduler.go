package scheduler

import "time"

// Task runs one scheduled cycle and reports whether the loop should stop.
type Task func() (stop bool)

// Every runs task once after delay, then on a fixed interval, until the
// task asks to stop. cleanup runs before the loop goroutine returns, not
// deferred after it, so a caller that observes cleanup's effect (for
// example a freed start slot) can immediately start a replacement loop
// without racing the old one.
func Every(delay, interval time.Duration, task Task, cleanup func()) {
	go func() {
		time.Sleep(delay)
		if task() {
			cleanup()
			return
		}

		t := time.NewTicker(interval)
		defer t.Stop()

		for range t.C {
			if task() {
				cleanup()
				return
			}
		}
	}()
}
