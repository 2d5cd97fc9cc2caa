// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lockrunner

import (
	"context"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/juju/resourcelock/core/exclusive"
	"github.com/juju/resourcelock/core/logger"
	"github.com/juju/resourcelock/internal/lock"
)

// LockProvider builds the lock a task must hold while it runs. It is
// satisfied by *lock.Manager.
type LockProvider interface {
	LockForResources([]exclusive.Resource) lock.ResourceLock
}

// Config holds the dependencies and configuration of a Worker.
type Config struct {
	// Locks supplies the lock for each task.
	Locks LockProvider

	// Clock is used to time tasks.
	Clock clock.Clock

	// Logger is used to report task progress.
	Logger logger.Logger

	// MaxConcurrency is the number of tasks that may run at once,
	// regardless of whether their resources conflict.
	MaxConcurrency int
}

// Validate returns an error if the config cannot be used to start a
// Worker.
func (config Config) Validate() error {
	if config.Locks == nil {
		return errors.NotValidf("nil Locks")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	if config.MaxConcurrency <= 0 {
		return errors.NotValidf("non-positive MaxConcurrency")
	}
	return nil
}

// Task is a unit of work together with the resources it requires.
type Task struct {
	// Name identifies the task in logs.
	Name string

	// Resources are the resources held for the duration of Func.
	Resources []exclusive.Resource

	// Func is the work itself.
	Func func(context.Context) error
}

// Validate returns an error if the task is incomplete or declares an
// invalid resource.
func (t Task) Validate() error {
	if t.Name == "" {
		return errors.NotValidf("empty task name")
	}
	if t.Func == nil {
		return errors.NotValidf("task %q with nil Func", t.Name)
	}
	for _, r := range t.Resources {
		if err := r.Validate(); err != nil {
			return errors.Annotatef(err, "task %q", t.Name)
		}
	}
	return nil
}
