// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package lock

import (
	"slices"
	"sync"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/resourcelock/core/exclusive"
	"github.com/juju/resourcelock/core/logger"
)

var defaultLogger = loggo.GetLogger("resourcelock.lock")

// ManagerConfig holds the dependencies of a Manager.
type ManagerConfig struct {
	// Clock is used to time how long acquisitions block.
	Clock clock.Clock

	// Logger is used to trace lock construction.
	Logger logger.Logger

	// Metrics, if set, receives lock events.
	Metrics *Collector
}

// Validate returns an error if the config cannot be used to start a
// Manager.
func (config ManagerConfig) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Manager turns resource requirements into ResourceLocks. Every lock it
// builds shares the same registry, and multi-resource locks are always
// acquired in canonical order, so that any two units of work using the
// same Manager cannot deadlock against each other.
type Manager struct {
	config   ManagerConfig
	metrics  metricsRecorder
	registry *Registry

	globalRead      *singleLock
	globalReadWrite *singleLock
}

// NewManager returns a new Manager configured as supplied.
func NewManager(config ManagerConfig) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	m := &Manager{
		config:   config,
		metrics:  noopMetrics{},
		registry: NewRegistry(),
	}
	if config.Metrics != nil {
		m.metrics = config.Metrics
	}

	m.globalRead = &singleLock{
		kind:     KindGlobalRead,
		face:     m.face(exclusive.GlobalRead),
		observer: m.observer(),
	}
	m.globalReadWrite = &singleLock{
		kind:     KindGlobalReadWrite,
		face:     m.face(exclusive.GlobalReadWrite),
		observer: m.observer(),
	}
	return m, nil
}

var defaultManager = sync.OnceValue(func() *Manager {
	m, err := NewManager(ManagerConfig{
		Clock:  clock.WallClock,
		Logger: defaultLogger,
	})
	if err != nil {
		panic(err)
	}
	return m
})

// DefaultManager returns the Manager shared by the whole process.
func DefaultManager() *Manager {
	return defaultManager()
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// LockForResource returns a lock for a single resource. Locks on the global
// resource are the manager's global singletons, tagged KindGlobalRead or
// KindGlobalReadWrite.
func (m *Manager) LockForResource(resource exclusive.Resource) ResourceLock {
	return m.toResourceLock([]face{m.face(resource)})
}

// LockForResources returns a single lock covering all of the supplied
// resources. Resources are sorted canonically, exact duplicates are
// dropped, and only the first resource (in sorted order) is kept for each
// key. Because ReadWrite sorts before Read, a key requested in both modes
// is locked for ReadWrite.
func (m *Manager) LockForResources(resources []exclusive.Resource) ResourceLock {
	return m.toResourceLock(m.distinctSortedFaces(resources))
}

func (m *Manager) distinctSortedFaces(resources []exclusive.Resource) []face {
	switch len(resources) {
	case 0:
		return nil
	case 1:
		return []face{m.face(resources[0])}
	}

	sorted := slices.Clone(resources)
	slices.SortFunc(sorted, exclusive.Compare)
	sorted = slices.Compact(sorted)

	seen := set.NewStrings()
	faces := make([]face, 0, len(sorted))
	for _, resource := range sorted {
		if seen.Contains(resource.Key) {
			continue
		}
		seen.Add(resource.Key)
		faces = append(faces, m.face(resource))
	}
	return faces
}

func (m *Manager) toResourceLock(faces []face) ResourceLock {
	var l ResourceLock
	switch len(faces) {
	case 0:
		l = nopLock{}
	case 1:
		l = m.single(faces[0])
	default:
		l = &compositeLock{
			faces:    faces,
			observer: m.observer(),
		}
	}
	if m.config.Logger.IsTraceEnabled() {
		m.config.Logger.Tracef("built %s lock for %v", l.Kind(), l.Resources())
	}
	return l
}

func (m *Manager) single(f face) ResourceLock {
	if f.resource.IsGlobal() {
		if f.resource.Mode == exclusive.Read {
			return m.globalRead
		}
		return m.globalReadWrite
	}
	return &singleLock{
		kind:     KindSingle,
		face:     f,
		observer: m.observer(),
	}
}

func (m *Manager) face(resource exclusive.Resource) face {
	rw, created := m.registry.resolve(resource.Key)
	if created {
		m.metrics.keyCreated()
	}
	return newFace(rw, resource)
}

func (m *Manager) observer() observer {
	return observer{
		clock:   m.config.Clock,
		metrics: m.metrics,
	}
}
