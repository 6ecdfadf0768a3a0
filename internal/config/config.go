// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package config

import (
	"time"
)

// Default values applied by validate for fields left empty by every source.
const (
	DefaultDBPath       = "lockkey.db"
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultPollInterval = 15 * time.Second
)

// StructuredConfig is the top-level configuration container for lockkey.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Session holds the lifetime settings of an authenticated session.
	Session Session `envPrefix:"SESSION_"`

	// Storage holds configuration for the local database file.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Session holds the lifetime settings of an authenticated session.
type Session struct {
	// IdleTimeout is the inactivity window after which an authenticated
	// session is forcibly logged out by the idle watcher (e.g. "5m").
	// Env: SESSION_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the database file settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds settings for the local sqlite database file.
type DB struct {
	// Path is the filesystem path of the vault database file. The file is
	// created on first open if it does not exist.
	// Env: STORAGE_DB_PATH
	Path string `env:"PATH"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// PollInterval is how often the idle watcher wakes up to inspect the
	// session's last-activity timestamp (e.g. "15s").
	// Env: WORKERS_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
