package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrConnectionFailed is returned when the database file cannot be
	// created, opened or pinged at store construction time.
	ErrConnectionFailed = errors.New("failed to open vault database")

	// ErrUsernameTaken is returned when an attempt to create a new user
	// fails because a user with the same username already exists.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrDuplicateLabel is returned when a secret insert or rename collides
	// with an existing (user_id, label) pair.
	ErrDuplicateLabel = errors.New("label already in use")

	// ErrUserNotFound is returned when an operation targets a user row that
	// does not exist. Point lookups do not use it; they report absence as a
	// nil result instead.
	ErrUserNotFound = errors.New("user was not found")

	// ErrSecretNotFound is returned when an update or delete targets a
	// secret (identified by user_id and label) that does not exist.
	ErrSecretNotFound = errors.New("secret was not found")

	// ErrValidation is returned when input violates a storage invariant
	// (label length, username length, envelope size, unknown kind). The
	// offending rule is wrapped and no row is ever written.
	ErrValidation = errors.New("validation failed")
)

// Low-level database operation errors, returned (or wrapped) by repository
// methods when a SQL-level operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails for a reason without a domain translation.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")
)

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. Uniqueness is enforced by the database alone; there is no
// check-then-insert race to worry about.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// isConstraintViolation reports whether err is any other sqlite constraint
// failure (CHECK, NOT NULL, FOREIGN KEY). The validators reject such input
// first; the database constraint is the backstop.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
