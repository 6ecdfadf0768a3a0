package validators

import (
	"errors"
	"fmt"
)

// Boundary constants enforced on vault input. These mirror the database
// CHECK constraints so that invalid input is rejected before any row is
// written.
const (
	MinLabelLen    = 3
	MaxLabelLen    = 32
	MaxUsernameLen = 24

	// MinEnvelopeLen is the smallest ciphertext envelope that can exist:
	// 16-byte salt + 12-byte nonce + at least one byte of ciphertext/tag.
	MinEnvelopeLen = 29
)

var (
	// ErrUnsupportedType is returned when Validate receives a model it does
	// not know how to check.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrEmptyUsername is returned for a blank username.
	ErrEmptyUsername = errors.New("username must not be empty")

	// ErrUsernameTooLong is returned when a username exceeds MaxUsernameLen.
	ErrUsernameTooLong = fmt.Errorf("username must be at most %d characters", MaxUsernameLen)

	// ErrInvalidLabelLength is returned when a label is outside
	// [MinLabelLen, MaxLabelLen].
	ErrInvalidLabelLength = fmt.Errorf("label must be between %d and %d characters", MinLabelLen, MaxLabelLen)

	// ErrInvalidKind is returned when a secret kind is not a recognized value.
	ErrInvalidKind = errors.New("unknown secret kind")

	// ErrInvalidEnvelopeLength is returned when ciphertext is too short to
	// be a real envelope; the store never persists such data.
	ErrInvalidEnvelopeLength = fmt.Errorf("ciphertext must be at least %d bytes", MinEnvelopeLen)

	// ErrInvalidUserID is returned for a non-positive owner id.
	ErrInvalidUserID = errors.New("invalid user id")
)
