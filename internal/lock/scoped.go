// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lock

import (
	"context"

	"github.com/juju/errors"
)

// WithLock runs fn while holding l. The context is only checked before l
// is acquired: once Acquire is blocking it cannot be interrupted. l is
// released on every exit path from fn, including a panic.
func WithLock(ctx context.Context, l ResourceLock, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}

	l.Acquire()
	defer l.Release()

	return errors.Trace(fn(ctx))
}
