// Package timing provides debounce and throttle wrappers for arbitrary
// callables.
//
// Each wrapper owns its timer and timestamp; wrappers may be called from
// several goroutines, and fn is never invoked while the wrapper's lock is held.
package timing

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock makes the wrapper read time and arm timers through clock.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func newOptions(optionsProto []Option) *options {
	o := &options{
		clock: clockwork.NewRealClock(),
	}
	for _, protoOption := range optionsProto {
		protoOption(o)
	}
	return o
}

// Debounce returns a wrapper around fn. Every call cancels the pending one.
//
// With immediate unset, fn runs once, delay after the last call of a burst,
// with that call's arguments. With immediate set, the first call of a burst
// runs fn synchronously and arms a cooldown; calls during the cooldown re-arm
// it without firing.
func Debounce[A any](fn func(A), delay time.Duration, immediate bool, opts ...Option) func(A) {
	o := newOptions(opts)

	var (
		mu      sync.Mutex
		timer   clockwork.Timer
		gen     uint64
		readyAt time.Time
	)

	return func(args A) {
		mu.Lock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		gen++

		if immediate {
			// The cooldown expires delay after the latest call of the burst.
			now := o.clock.Now()
			callNow := readyAt.IsZero() || !now.Before(readyAt)
			readyAt = now.Add(delay)
			mu.Unlock()

			if callNow {
				fn(args)
			}
			return
		}

		current := gen
		timer = o.clock.AfterFunc(delay, func() {
			mu.Lock()
			if gen != current {
				mu.Unlock()
				return
			}
			timer = nil
			mu.Unlock()

			fn(args)
		})
		mu.Unlock()
	}
}

// Throttle returns a wrapper that forwards a call to fn only if at least
// delay has passed since the last forwarded call; other calls are dropped.
//
// With immediate unset, the first call starts the window instead of being
// forwarded, so it only goes through when delay is zero.
func Throttle[A any](fn func(A), delay time.Duration, immediate bool, opts ...Option) func(A) {
	o := newOptions(opts)

	var (
		mu       sync.Mutex
		lastCall time.Time
	)

	return func(args A) {
		mu.Lock()
		now := o.clock.Now()
		if lastCall.IsZero() && !immediate {
			lastCall = now
		}
		if !lastCall.IsZero() && now.Sub(lastCall) < delay {
			mu.Unlock()
			return
		}
		lastCall = now
		mu.Unlock()

		fn(args)
	}
}
