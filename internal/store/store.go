package store

import (
	"context"
	"sync"

	"github.com/mfedotov/lockkey/internal/config"
	"github.com/mfedotov/lockkey/internal/logger"
)

// Store is the durable backing store of the vault: one sqlite file, one
// underlying connection, and the two repositories that share it.
type Store struct {
	db      *DB
	Users   UserRepository
	Secrets SecretRepository

	closeOnce sync.Once
	closeErr  error
}

// Open connects to (creating if necessary) the vault database file, applies
// schema migrations and wires up the repositories. A failure here is fatal
// for the session that requested it: no secret is reachable without the
// store.
func Open(ctx context.Context, cfg config.DB, log *logger.Logger) (*Store, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:      db,
		Users:   NewUserRepository(db, log),
		Secrets: NewSecretRepository(db, log),
	}, nil
}

// Close releases the underlying connection. Safe to call any number of
// times; calls after the first are no-ops returning the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
