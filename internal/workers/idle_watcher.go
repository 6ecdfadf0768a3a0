// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package workers

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfedotov/lockkey/internal/logger"
)

// IdleWatcher force-logs-out a session after a period of inactivity.
//
// Exactly one watcher exists per login. It needs no cancellation token: the
// login identity it carries is its lease. As soon as the session reports a
// different identity (logout, replacement by a new login, or an expiry
// performed by this same watcher) the loop exits.
type IdleWatcher struct {
	session  IdleSession
	loginID  uuid.UUID
	window   time.Duration
	interval time.Duration
	notify   func()
	logger   *logger.Logger
}

// NewIdleWatcher constructs a watcher bound to the login identified by
// loginID. notify is invoked at most once, after the watcher itself expires
// the session; it may be nil.
func NewIdleWatcher(session IdleSession, loginID uuid.UUID, window, interval time.Duration, notify func(), log *logger.Logger) *IdleWatcher {
	return &IdleWatcher{
		session:  session,
		loginID:  loginID,
		window:   window,
		interval: interval,
		notify:   notify,
		logger:   log,
	}
}

// Run implements [Worker]. It blocks until the watched login ends, so it is
// normally started on its own goroutine.
func (w *IdleWatcher) Run() {
	log := w.logger.GetChildLogger()
	log.Debug().
		Str("login_id", w.loginID.String()).
		Dur("window", w.window).
		Dur("interval", w.interval).
		Msg("idle watcher started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		if w.session.ExpireIfIdle(w.loginID, w.window) {
			log.Info().Str("login_id", w.loginID.String()).Msg("session expired after inactivity")
			if w.notify != nil {
				w.notify()
			}
			return
		}

		if !w.session.Matches(w.loginID) {
			log.Debug().Str("login_id", w.loginID.String()).Msg("login superseded, idle watcher exiting")
			return
		}
	}
}
