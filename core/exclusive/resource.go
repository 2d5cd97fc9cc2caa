// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package exclusive describes the resources a unit of work needs exclusive
// or shared access to.
package exclusive

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// GlobalKey is the reserved key of the resource representing the whole
// system. Any unit of work that needs exclusive access to everything
// declares it in ReadWrite mode; work that must be kept apart from it
// declares it in Read mode.
const GlobalKey = "resourcelock.global"

// LockMode describes the access a unit of work requires on a resource.
// The declaration order matters: it is part of the canonical ordering
// used when several resources are locked together.
type LockMode int

const (
	// ReadWrite requires exclusive access to the resource.
	ReadWrite LockMode = iota

	// Read requires shared access to the resource. Any number of
	// readers may hold the resource at the same time.
	Read
)

// String returns the name of the mode.
func (m LockMode) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case Read:
		return "read"
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// Validate returns an error if the mode is not one of the known modes.
func (m LockMode) Validate() error {
	switch m {
	case ReadWrite, Read:
		return nil
	}
	return errors.NotValidf("lock mode %d", int(m))
}

// Resource describes a single exclusivity requirement: a key naming the
// resource and the mode in which it is required. Resources are plain
// values and compare equal when both fields are equal.
type Resource struct {
	// Key identifies the resource.
	Key string

	// Mode is the access required on the resource.
	Mode LockMode
}

var (
	// GlobalRead is the global resource in shared mode.
	GlobalRead = Resource{Key: GlobalKey, Mode: Read}

	// GlobalReadWrite is the global resource in exclusive mode.
	GlobalReadWrite = Resource{Key: GlobalKey, Mode: ReadWrite}
)

// NewResource returns a resource for the supplied key and mode.
func NewResource(key string, mode LockMode) Resource {
	return Resource{Key: key, Mode: mode}
}

// IsGlobal reports whether the resource refers to the global key.
func (r Resource) IsGlobal() bool {
	return r.Key == GlobalKey
}

// String is part of the fmt.Stringer interface.
func (r Resource) String() string {
	return fmt.Sprintf("%s (%s)", r.Key, r.Mode)
}

// Validate returns an error if the key is empty or only whitespace, or if
// the mode is unknown. The lock manager itself never validates; callers
// building resources from untrusted input are expected to.
func (r Resource) Validate() error {
	if strings.TrimSpace(r.Key) == "" {
		return errors.NotValidf("empty resource key")
	}
	if err := r.Mode.Validate(); err != nil {
		return errors.Annotatef(err, "resource %q", r.Key)
	}
	return nil
}

// Compare orders resources canonically: the global key sorts before every
// other key, remaining keys sort lexically, and resources with the same
// key sort by mode. It returns a negative number when a sorts before b,
// a positive number when it sorts after, and zero when they are equal.
func Compare(a, b Resource) int {
	if ag, bg := a.IsGlobal(), b.IsGlobal(); ag != bg {
		if ag {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return int(a.Mode) - int(b.Mode)
}
