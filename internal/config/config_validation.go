// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package config

import "strings"

// validate checks the merged [StructuredConfig] and fills in defaults for
// fields no source provided. The in-memory DSN is rejected because the vault
// is meaningless without a durable file.
func (cfg *StructuredConfig) validate() error {
	if strings.Contains(cfg.Storage.DB.Path, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.DB.Path == "" {
		cfg.Storage.DB.Path = DefaultDBPath
	}

	if cfg.Session.IdleTimeout < 0 {
		return ErrInvalidSessionConfigs
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = DefaultIdleTimeout
	}

	if cfg.Workers.PollInterval < 0 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.Workers.PollInterval == 0 {
		cfg.Workers.PollInterval = DefaultPollInterval
	}

	return nil
}
