// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/internal/validators"
	"github.com/mfedotov/lockkey/models"
)

// userRepository is the sqlite-backed implementation of [UserRepository].
// It handles account creation, lookup and deletion against the "users"
// table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured tracing of database interactions.
type userRepository struct {
	logger    *logger.Logger
	db        *DB
	validator validators.Validator
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:        db,
		logger:    logger,
		validator: validators.NewVaultValidator(),
	}
}

// CreateUser persists a new account row and returns the [models.User] with
// its database-assigned UserID.
//
// Error handling:
//   - invalid username → [ErrValidation] (nothing is written);
//   - sqlite unique_violation on username → [ErrUsernameTaken];
//   - any other driver-level error → wrapped as [ErrExecutingQuery].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := r.validator.Validate(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	query, args, err := sq.Insert(user.TableName()).
		Columns("username", "passwd_hash", "enc_salt").
		Values(user.Username, user.PasswdHash, user.EncSalt).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch {
		case isUniqueViolation(err):
			return models.User{}, ErrUsernameTaken
		case isConstraintViolation(err):
			return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
		default:
			return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	user.UserID, err = res.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error reading inserted id")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return user, nil
}

// FindUserByUsername retrieves the account whose username matches exactly.
// A missing user is not an error: the result is (nil, nil) so that login can
// treat "no such user" and "wrong password" identically.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, sq.Eq{"username": username})
}

// FindUserByID retrieves the account with the given surrogate key, or
// (nil, nil) when absent.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return r.findUser(ctx, sq.Eq{"user_id": userID})
}

func (r *userRepository) findUser(ctx context.Context, where sq.Eq) (*models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("user_id", "username", "passwd_hash", "enc_salt").
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var user models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&user.UserID, &user.Username, &user.PasswdHash, &user.EncSalt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error scanning user row")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &user, nil
}

// DeleteUser removes the account row; the secrets it owns go with it via
// the foreign-key cascade. Returns [ErrUserNotFound] when the username does
// not exist.
func (r *userRepository) DeleteUser(ctx context.Context, username string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete(models.User{}.TableName()).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error deleting user")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}
