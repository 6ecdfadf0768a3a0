package store

import (
	"context"

	"github.com/mfedotov/lockkey/models"
)

// UserRepository handles vault account rows. Point lookups report a missing
// user as (nil, nil), never as an error; callers decide whether absence is
// exceptional.
type UserRepository interface {
	// CreateUser persists a new account and returns it with the
	// database-assigned UserID. Fails with [ErrUsernameTaken] when the
	// username is already in use and [ErrValidation] on invalid input.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByUsername looks up one account by its unique username.
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// FindUserByID looks up one account by its surrogate key.
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)

	// DeleteUser removes an account; the database cascades the delete to
	// every secret the account owns. Fails with [ErrUserNotFound] when no
	// such username exists.
	DeleteUser(ctx context.Context, username string) error
}

// SecretRepository handles encrypted secret rows. The data column is opaque
// to this layer: it stores and returns ciphertext envelopes and never sees
// plaintext.
type SecretRepository interface {
	// StoreSecret inserts a new secret. Fails with [ErrDuplicateLabel] when
	// the owner already uses the label and [ErrValidation] on invalid input.
	StoreSecret(ctx context.Context, secret models.Secret) error

	// EditSecret atomically renames a secret and replaces its ciphertext in
	// a single UPDATE. Fails with [ErrSecretNotFound] when (userID,
	// oldLabel) does not exist and [ErrDuplicateLabel] when newLabel is
	// already in use by the same owner.
	EditSecret(ctx context.Context, userID int64, oldLabel, newLabel string, data []byte) error

	// GetSecret returns the secret with the given owner and label, or
	// (nil, nil) when it does not exist.
	GetSecret(ctx context.Context, userID int64, label string) (*models.Secret, error)

	// GetLabels lists kind+label for every secret owned by userID, and
	// nothing owned by anyone else.
	GetLabels(ctx context.Context, userID int64) ([]models.LabelEntry, error)

	// DeleteSecret removes one secret. Fails with [ErrSecretNotFound] when
	// (userID, label) does not exist.
	DeleteSecret(ctx context.Context, userID int64, label string) error
}
