// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package logger

// Logger is the logging interface used throughout the module. It is
// satisfied by loggo.Logger, so packages default to a loggo logger and
// tests substitute one that writes to the test log.
type Logger interface {
	Criticalf(string, ...any)
	Errorf(string, ...any)
	Warningf(string, ...any)
	Infof(string, ...any)
	Debugf(string, ...any)
	Tracef(string, ...any)

	IsTraceEnabled() bool
}
