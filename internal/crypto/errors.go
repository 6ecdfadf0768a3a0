package crypto

import "errors"

// Sentinel errors returned by the key chain. Callers should use [errors.Is]
// to match against these values.
var (
	// ErrKeyDerivationFailed is returned when key material cannot be
	// derived, e.g. the supplied salt or key has the wrong length.
	ErrKeyDerivationFailed = errors.New("key derivation failed")

	// ErrEncryptionFailed is returned when sealing a plaintext fails
	// (cipher construction or CSPRNG failure).
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when the authentication tag does not
	// verify. Wrong key and tampered ciphertext are deliberately
	// indistinguishable.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEnvelope is returned when an envelope is too short to hold
	// the salt, the nonce and at least one byte of ciphertext.
	ErrInvalidEnvelope = errors.New("invalid ciphertext envelope")

	// ErrInvalidUTF8 is returned when a successfully authenticated
	// plaintext does not decode as UTF-8. Authenticated data written by
	// this vault is always UTF-8, so this signals a logic bug, not an
	// attack.
	ErrInvalidUTF8 = errors.New("decrypted data is not valid utf-8")
)
