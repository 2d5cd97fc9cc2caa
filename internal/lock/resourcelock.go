// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lock

import (
	"fmt"
	"sync"

	"github.com/juju/clock"

	"github.com/juju/resourcelock/core/exclusive"
)

// Kind tags the variant of a ResourceLock, so callers can tell the global
// singletons apart from an ordinary single lock without inspecting it.
type Kind int

const (
	// KindNop is a lock over no resources; it never blocks.
	KindNop Kind = iota

	// KindSingle is a lock over exactly one non-global resource.
	KindSingle

	// KindComposite is a lock over several resources, acquired in
	// canonical order.
	KindComposite

	// KindGlobalRead is the shared lock on the global resource.
	KindGlobalRead

	// KindGlobalReadWrite is the exclusive lock on the global resource.
	KindGlobalReadWrite
)

// String is part of the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindNop:
		return "nop"
	case KindSingle:
		return "single"
	case KindComposite:
		return "composite"
	case KindGlobalRead:
		return "global-read"
	case KindGlobalReadWrite:
		return "global-read-write"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ResourceLock is the handle returned by the Manager for a unit of work.
// It is acquired once before the work runs and released once after it
// finishes, on every exit path. A ResourceLock is owned by a single unit
// of work and is not reused.
type ResourceLock interface {
	// Acquire blocks until every underlying lock is held. There is no
	// timeout and no way to abort a blocked Acquire.
	Acquire()

	// Release releases every underlying lock, in the reverse order to
	// which they were acquired. It must only be called after Acquire
	// has returned.
	Release()

	// Kind returns the variant of the lock.
	Kind() Kind

	// Resources returns the resources guarded by the lock, in
	// acquisition order.
	Resources() []exclusive.Resource

	// IsExclusive reports whether any of the resources is held in
	// ReadWrite mode.
	IsExclusive() bool
}

// face is one side of a registry mutex: the read side for Read resources
// and the write side for ReadWrite resources.
type face struct {
	resource exclusive.Resource
	locker   sync.Locker
}

func newFace(rw *sync.RWMutex, resource exclusive.Resource) face {
	if resource.Mode == exclusive.Read {
		return face{resource: resource, locker: rw.RLocker()}
	}
	return face{resource: resource, locker: rw}
}

// observer times acquisitions and feeds them to the metrics.
type observer struct {
	clock   clock.Clock
	metrics metricsRecorder
}

func (o observer) timed(kind Kind, acquire func()) {
	begin := o.clock.Now()
	acquire()
	o.metrics.acquired(kind, o.clock.Now().Sub(begin))
}

type nopLock struct{}

// Acquire is part of the ResourceLock interface.
func (nopLock) Acquire() {}

// Release is part of the ResourceLock interface.
func (nopLock) Release() {}

// Kind is part of the ResourceLock interface.
func (nopLock) Kind() Kind { return KindNop }

// Resources is part of the ResourceLock interface.
func (nopLock) Resources() []exclusive.Resource { return nil }

// IsExclusive is part of the ResourceLock interface.
func (nopLock) IsExclusive() bool { return false }

// singleLock guards exactly one face. The two global singletons are
// singleLocks tagged with one of the global kinds.
type singleLock struct {
	kind     Kind
	face     face
	observer observer
}

// Acquire is part of the ResourceLock interface.
func (l *singleLock) Acquire() {
	l.observer.timed(l.kind, l.face.locker.Lock)
}

// Release is part of the ResourceLock interface.
func (l *singleLock) Release() {
	l.face.locker.Unlock()
	l.observer.metrics.released(l.kind)
}

// Kind is part of the ResourceLock interface.
func (l *singleLock) Kind() Kind { return l.kind }

// Resources is part of the ResourceLock interface.
func (l *singleLock) Resources() []exclusive.Resource {
	return []exclusive.Resource{l.face.resource}
}

// IsExclusive is part of the ResourceLock interface.
func (l *singleLock) IsExclusive() bool {
	return l.face.resource.Mode == exclusive.ReadWrite
}

// compositeLock guards several faces, held in canonical order.
type compositeLock struct {
	faces    []face
	observer observer
}

// Acquire is part of the ResourceLock interface. Faces are locked one at a
// time; a face is only requested once the previous one is held. If locking
// a face panics, every face already held is unlocked in reverse order
// before the panic continues.
func (l *compositeLock) Acquire() {
	l.observer.timed(KindComposite, func() {
		held := 0
		defer func() {
			if held == len(l.faces) {
				return
			}
			for i := held - 1; i >= 0; i-- {
				l.faces[i].locker.Unlock()
			}
		}()
		for _, f := range l.faces {
			f.locker.Lock()
			held++
		}
	})
}

// Release is part of the ResourceLock interface.
func (l *compositeLock) Release() {
	for i := len(l.faces) - 1; i >= 0; i-- {
		l.faces[i].locker.Unlock()
	}
	l.observer.metrics.released(KindComposite)
}

// Kind is part of the ResourceLock interface.
func (l *compositeLock) Kind() Kind { return KindComposite }

// Resources is part of the ResourceLock interface.
func (l *compositeLock) Resources() []exclusive.Resource {
	resources := make([]exclusive.Resource, len(l.faces))
	for i, f := range l.faces {
		resources[i] = f.resource
	}
	return resources
}

// IsExclusive is part of the ResourceLock interface.
func (l *compositeLock) IsExclusive() bool {
	for _, f := range l.faces {
		if f.resource.Mode == exclusive.ReadWrite {
			return true
		}
	}
	return false
}
