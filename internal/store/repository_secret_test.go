package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/internal/validators"
	"github.com/mfedotov/lockkey/models"
)

func newTestSecretRepo(t *testing.T) (*secretRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &secretRepository{
		db:        &DB{DB: db, logger: l},
		logger:    l,
		validator: validators.NewVaultValidator(),
	}
	return repo, mock, db
}

func testSecret() models.Secret {
	return models.Secret{
		UserID: 1,
		Kind:   models.KindPassword,
		Label:  "gmail",
		Data:   make([]byte, validators.MinEnvelopeLen),
	}
}

func TestStoreSecret_Success(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO secrets").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.StoreSecret(context.Background(), testSecret()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStoreSecret_DuplicateLabel(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO secrets").
		WillReturnError(uniqueViolation())

	err := repo.StoreSecret(context.Background(), testSecret())
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestStoreSecret_ValidationRejectedBeforeWrite(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	cases := []struct {
		name   string
		mutate func(*models.Secret)
	}{
		{"label too short", func(s *models.Secret) { s.Label = "ab" }},
		{"unknown kind", func(s *models.Secret) { s.Kind = "certificate" }},
		{"envelope too short", func(s *models.Secret) { s.Data = []byte("tiny") }},
		{"bad owner", func(s *models.Secret) { s.UserID = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			secret := testSecret()
			tc.mutate(&secret)

			err := repo.StoreSecret(context.Background(), secret)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// None of the rejected inputs may have reached the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database interaction: %v", err)
	}
}

func TestEditSecret_NotFound(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE secrets").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.EditSecret(context.Background(), 1, "ghost", "newlabel", make([]byte, validators.MinEnvelopeLen))
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestEditSecret_RenameCollision(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE secrets").
		WillReturnError(uniqueViolation())

	err := repo.EditSecret(context.Background(), 1, "gmail", "taken", make([]byte, validators.MinEnvelopeLen))
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestGetSecret_AbsentIsNilNil(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id").
		WillReturnError(sql.ErrNoRows)

	secret, err := repo.GetSecret(context.Background(), 1, "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != nil {
		t.Fatalf("expected nil secret for absent row, got %+v", secret)
	}
}

func TestDeleteSecret_NotFound(t *testing.T) {
	repo, mock, db := newTestSecretRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM secrets").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteSecret(context.Background(), 1, "ghost")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}
