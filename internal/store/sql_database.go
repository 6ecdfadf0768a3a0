package store

import (
	"database/sql"

	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/migrations"
)

// DB wraps the single sqlite connection shared by all repositories.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
