// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lockrunner

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"
	"golang.org/x/sync/semaphore"

	"github.com/juju/resourcelock/internal/lock"
)

// ErrRunnerStopped is returned for tasks that cannot be started because
// the worker is shutting down.
const ErrRunnerStopped = errors.ConstError("lock runner stopped")

// submission carries a task to the loop, along with the channel on which
// its result is delivered.
type submission struct {
	task   Task
	result chan error
}

// Worker runs submitted tasks while holding the locks for their
// resources. Tasks whose resources do not conflict run concurrently, up
// to the configured limit.
type Worker struct {
	catacomb catacomb.Catacomb

	config Config

	// submissions delivers tasks to the loop.
	submissions chan submission

	// slots bounds the number of tasks running at once.
	slots *semaphore.Weighted

	// wg tracks task goroutines, so the worker does not stop until they
	// have all finished.
	wg sync.WaitGroup

	running   atomic.Int64
	completed atomic.Int64
}

var _ worker.Worker = (*Worker)(nil)

// NewWorker returns a Worker configured as supplied. The caller takes
// responsibility for killing, and handling errors from, the returned
// Worker.
func NewWorker(config Config) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &Worker{
		config:      config,
		submissions: make(chan submission),
		slots:       semaphore.NewWeighted(int64(config.MaxConcurrency)),
	}
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &w.catacomb,
		Work: w.loop,
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.catacomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.catacomb.Wait()
}

// Submit queues task to run. The returned channel receives the task's
// result once it has finished, or ErrRunnerStopped if the worker stopped
// before the task could start.
func (w *Worker) Submit(ctx context.Context, task Task) (<-chan error, error) {
	if err := task.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	sub := submission{
		task:   task,
		result: make(chan error, 1),
	}
	select {
	case <-w.catacomb.Dying():
		return nil, ErrRunnerStopped
	case <-ctx.Done():
		return nil, errors.Trace(ctx.Err())
	case w.submissions <- sub:
		return sub.result, nil
	}
}

// Report returns information about the tasks run by the worker.
func (w *Worker) Report() map[string]any {
	report := map[string]any{
		"running":   w.running.Load(),
		"completed": w.completed.Load(),
	}
	if r, ok := w.config.Locks.(interface{ Registry() *lock.Registry }); ok {
		report["lock-keys"] = r.Registry().Len()
	}
	return report
}

func (w *Worker) loop() error {
	// Deferred calls run in reverse: cancel first, so tasks still waiting
	// for a slot give up, then wait for everything else to finish.
	ctx, cancel := context.WithCancel(context.Background())
	defer w.wg.Wait()
	defer cancel()

	for {
		select {
		case <-w.catacomb.Dying():
			return w.catacomb.ErrDying()
		case sub := <-w.submissions:
			w.wg.Add(1)
			go w.run(ctx, sub)
		}
	}
}

func (w *Worker) run(ctx context.Context, sub submission) {
	defer w.wg.Done()

	task := sub.task
	if err := w.slots.Acquire(ctx, 1); err != nil {
		sub.result <- ErrRunnerStopped
		return
	}
	defer w.slots.Release(1)

	if ctx.Err() != nil {
		sub.result <- ErrRunnerStopped
		return
	}

	l := w.config.Locks.LockForResources(task.Resources)
	if l.Kind() == lock.KindGlobalReadWrite {
		w.config.Logger.Debugf("task %q requires the whole system, running isolated", task.Name)
	}

	w.running.Add(1)
	start := w.config.Clock.Now()
	err := lock.WithLock(ctx, l, task.Func)
	w.running.Add(-1)
	w.completed.Add(1)

	elapsed := w.config.Clock.Now().Sub(start)
	if err != nil {
		w.config.Logger.Debugf("task %q failed after %v: %v", task.Name, elapsed, err)
	} else {
		w.config.Logger.Tracef("task %q finished in %v", task.Name, elapsed)
	}
	sub.result <- err
}
