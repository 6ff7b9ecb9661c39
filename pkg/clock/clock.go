// Package clock supplies the reference instant for all grid computations.
// Production code uses the system clock; tests freeze time with Fixed so
// that grid output is reproducible.
package clock

import (
	"context"
	"time"
)

// Clock yields the current instant. A render pass captures Now() exactly
// once and threads the same value through every computation, so all zone
// rows in one pass observe the same moment.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a Clock backed by the real wall clock.
func System() Clock { return systemClock{} }

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time { return f.at }

// Fixed returns a Clock frozen at the given instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

// Tick invokes fn once per second with the clock's current instant until
// ctx is cancelled. It blocks; run it from its own goroutine.
func Tick(ctx context.Context, c Clock, fn func(time.Time)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(c.Now())
		}
	}
}
