package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d/-database vault database file path
//	-idle-timeout inactivity window before forced logout (e.g., "5m")
//	-poll-interval idle watcher wake-up interval (e.g., "15s")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databasePath string
	var idleTimeout time.Duration
	var pollInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&databasePath, "d", "", "Vault database file path")
	flag.StringVar(&databasePath, "database", "", "Vault database file path (alias)")
	flag.DurationVar(&idleTimeout, "idle-timeout", 0, "Session inactivity window (e.g., 5m)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Idle watcher poll interval (e.g., 15s)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Session: Session{
			IdleTimeout: idleTimeout,
		},
		Storage: Storage{
			DB: DB{
				Path: databasePath,
			},
		},
		Workers: Workers{
			PollInterval: pollInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
