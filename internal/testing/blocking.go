// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	"time"

	gc "gopkg.in/check.v1"
)

// ShortWait is how long we wait to be reasonably sure that something which
// should not happen has not happened.
const ShortWait = 50 * time.Millisecond

// LongWait is how long we are prepared to wait for something that should
// happen promptly. Tests only wait this long when they are failing.
const LongWait = 10 * time.Second

// Go runs f in a new goroutine and returns a channel that is closed when f
// returns.
func Go(f func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	return done
}

// AssertBlocked checks that done is not closed within ShortWait.
func AssertBlocked(c *gc.C, done <-chan struct{}, comment string) {
	select {
	case <-done:
		c.Fatalf("unexpectedly unblocked: %s", comment)
	case <-time.After(ShortWait):
	}
}

// AssertUnblocked checks that done is closed within LongWait.
func AssertUnblocked(c *gc.C, done <-chan struct{}, comment string) {
	select {
	case <-done:
	case <-time.After(LongWait):
		c.Fatalf("still blocked after %s: %s", LongWait, comment)
	}
}
