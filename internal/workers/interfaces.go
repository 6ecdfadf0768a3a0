// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"time"

	"github.com/google/uuid"
)

// Worker is the interface that must be implemented by any background worker.
// It defines a single Run method that starts the worker's execution.
//
// Implementations are expected to block for the duration of their work
// or spawn goroutines internally.
type Worker interface {
	Run()
}

// IdleSession is the slice of the session surface the idle watcher needs.
// Both methods compare the caller-supplied login identity against the
// session's current one, so a watcher left over from an earlier login can
// never act on a session that has since changed hands.
type IdleSession interface {
	// Matches reports whether the session currently belongs to the login
	// identified by id.
	Matches(id uuid.UUID) bool

	// ExpireIfIdle force-logs-out the session iff it still belongs to id
	// and its last activity is older than window. Reports whether the
	// expiry happened.
	ExpireIfIdle(id uuid.UUID, window time.Duration) bool
}
