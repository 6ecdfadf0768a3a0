package auth

// PasswordHasher hashes and verifies master passwords. It is independent of
// the encryption key chain: the stored hash only proves knowledge of the
// password, it contributes nothing to key material.
type PasswordHasher interface {
	// HashPassword hashes password with a fresh random salt and returns a
	// self-describing PHC string ($argon2id$v=..$m=..,t=..,p=..$salt$hash)
	// suitable for storage in a single text column.
	HashPassword(password string) (string, error)

	// VerifyPassword re-runs the hash with the parameters and salt embedded
	// in encoded and reports whether password matches. The comparison is
	// constant-time. Returns [ErrMalformedHash] if encoded is not a
	// recognized PHC string.
	VerifyPassword(password, encoded string) (bool, error)
}
