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

// secretRepository is the sqlite-backed implementation of [SecretRepository].
// Rows are always addressed by (user_id, label): every query carries the
// owner id, so one user's secrets can never surface in another user's
// results.
type secretRepository struct {
	logger    *logger.Logger
	db        *DB
	validator validators.Validator
}

// NewSecretRepository constructs a [SecretRepository] backed by the provided
// database connection and logger.
func NewSecretRepository(db *DB, logger *logger.Logger) SecretRepository {
	logger.Debug().Msg("creating secret repository")
	return &secretRepository{
		db:        db,
		logger:    logger,
		validator: validators.NewVaultValidator(),
	}
}

// StoreSecret inserts one secret row.
//
// Error handling:
//   - invalid label/kind/envelope/owner → [ErrValidation], nothing written;
//   - sqlite unique_violation on (user_id, label) → [ErrDuplicateLabel];
//   - any other driver-level error → wrapped as [ErrExecutingQuery].
func (r *secretRepository) StoreSecret(ctx context.Context, secret models.Secret) error {
	log := logger.FromContext(ctx)

	if err := r.validator.Validate(ctx, secret); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	query, args, err := sq.Insert(secret.TableName()).
		Columns("user_id", "kind", "label", "data").
		Values(secret.UserID, secret.Kind.String(), secret.Label, secret.Data).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*secretRepository.StoreSecret").Msg("error inserting secret")

		switch {
		case isUniqueViolation(err):
			return ErrDuplicateLabel
		case isConstraintViolation(err):
			return fmt.Errorf("%w: %w", ErrValidation, err)
		default:
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	return nil
}

// EditSecret renames a secret and replaces its ciphertext in one UPDATE, so
// a crash can never leave the new label with the old data or vice versa.
//
// Error handling mirrors StoreSecret, plus [ErrSecretNotFound] when
// (userID, oldLabel) matches no row.
func (r *secretRepository) EditSecret(ctx context.Context, userID int64, oldLabel, newLabel string, data []byte) error {
	log := logger.FromContext(ctx)

	probe := models.Secret{UserID: userID, Label: newLabel, Data: data}
	if err := r.validator.Validate(ctx, probe, validators.FieldUserID, validators.FieldLabel, validators.FieldData); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	query, args, err := sq.Update(models.Secret{}.TableName()).
		Set("label", newLabel).
		Set("data", data).
		Where(sq.Eq{"user_id": userID, "label": oldLabel}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*secretRepository.EditSecret").Msg("error updating secret")

		switch {
		case isUniqueViolation(err):
			return ErrDuplicateLabel
		case isConstraintViolation(err):
			return fmt.Errorf("%w: %w", ErrValidation, err)
		default:
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrSecretNotFound
	}

	return nil
}

// GetSecret returns one owned secret, or (nil, nil) when the owner has no
// secret under that label.
func (r *secretRepository) GetSecret(ctx context.Context, userID int64, label string) (*models.Secret, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("id", "user_id", "kind", "label", "data").
		From(models.Secret{}.TableName()).
		Where(sq.Eq{"user_id": userID, "label": label}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var secret models.Secret
	var kind string
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&secret.ID, &secret.UserID, &kind, &secret.Label, &secret.Data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Err(err).Str("func", "*secretRepository.GetSecret").Msg("error scanning secret row")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	secret.Kind, err = models.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return &secret, nil
}

// GetLabels lists kind+label for every secret owned by userID, ordered by
// label for stable presentation.
func (r *secretRepository) GetLabels(ctx context.Context, userID int64) ([]models.LabelEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("kind", "label").
		From(models.Secret{}.TableName()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("label").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*secretRepository.GetLabels").Msg("error querying labels")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.LabelEntry, 0)
	for rows.Next() {
		var kind string
		var entry models.LabelEntry
		if err := rows.Scan(&kind, &entry.Label); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if entry.Kind, err = models.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return entries, nil
}

// DeleteSecret removes one owned secret. Returns [ErrSecretNotFound] when
// (userID, label) matches no row.
func (r *secretRepository) DeleteSecret(ctx context.Context, userID int64, label string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Delete(models.Secret{}.TableName()).
		Where(sq.Eq{"user_id": userID, "label": label}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*secretRepository.DeleteSecret").Msg("error deleting secret")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrSecretNotFound
	}

	return nil
}
