package validators

import (
	"context"
	"unicode/utf8"

	"github.com/mfedotov/lockkey/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldUsername targets the account name of a user.
	FieldUsername = "username"

	// FieldUserID targets the owner identifier of a secret.
	FieldUserID = "user_id"

	// FieldKind targets the semantic kind of a secret (password or text).
	FieldKind = "kind"

	// FieldLabel targets the user-chosen label of a secret.
	FieldLabel = "label"

	// FieldData targets the ciphertext envelope of a secret.
	FieldData = "data"
)

// VaultValidator implements [Validator] for the vault domain models:
// models.User and models.Secret. Both value and pointer receivers are
// accepted for every model type.
type VaultValidator struct {
}

// NewVaultValidator constructs a new VaultValidator
// and returns it as the Validator interface.
func NewVaultValidator() Validator {
	return &VaultValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj.
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(ctx, value, fields...)
	case *models.User:
		return v.validateUser(ctx, *value, fields...)

	case models.Secret:
		return v.validateSecret(ctx, value, fields...)
	case *models.Secret:
		return v.validateSecret(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateUser checks a user account model.
// Default validated fields (when none specified): Username.
func (v *VaultValidator) validateUser(_ context.Context, user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if user.Username == "" {
				return ErrEmptyUsername
			}
			if utf8.RuneCountInString(user.Username) > MaxUsernameLen {
				return ErrUsernameTooLong
			}
		}
	}

	return nil
}

// validateSecret checks a secret model as it is about to be persisted.
// Default validated fields (when none specified): UserID, Kind, Label, Data.
func (v *VaultValidator) validateSecret(_ context.Context, secret models.Secret, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldKind, FieldLabel, FieldData}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if secret.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldKind:
			if !secret.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldLabel:
			if n := utf8.RuneCountInString(secret.Label); n < MinLabelLen || n > MaxLabelLen {
				return ErrInvalidLabelLength
			}
		case FieldData:
			if len(secret.Data) < MinEnvelopeLen {
				return ErrInvalidEnvelopeLength
			}
		}
	}

	return nil
}
