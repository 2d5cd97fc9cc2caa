// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package lock turns the exclusive resources declared by a unit of work
// into a single ResourceLock that can be acquired before the work runs and
// released after it.
//
// Every key has one sync.RWMutex, created on first use by the Registry and
// kept for the life of the Manager. Read resources take the read side of
// the mutex and ReadWrite resources take the write side.
//
// Locks over several resources are acquired in canonical order: the global
// resource first, then the remaining keys in lexical order. Any two units
// of work that share resources therefore request them in the same order,
// so they cannot wait on each other in a cycle. The global resource is how
// work that needs the whole system excludes everything else: keyed work
// also declares the global resource in Read mode, and whole-system work
// declares it in ReadWrite mode.
//
// Acquisition blocks without a timeout. Callers that want to honour
// cancellation use WithLock, which checks the context before blocking and
// guarantees the lock is released however the work exits.
package lock
