package crypto

// KeyChain owns every cryptographic step between a master password and a
// stored ciphertext envelope. It knows nothing about users, sessions or the
// database.
//
// The chain has two independent Argon2id applications:
//
//	masterKey = DeriveMasterKey(password, encSalt)   once per login
//	cipherKey = argon2id(masterKey, secretSalt)      once per Encrypt call
//
// encSalt is stored with the user row, so the same password always
// reproduces the same master key. secretSalt is drawn fresh for every
// encryption, so no two envelopes ever share a cipher key even inside one
// session.
type KeyChain interface {
	// GenerateSalt returns 16 random bytes from the OS CSPRNG. The salt is
	// not a secret; it exists so that equal passwords yield unequal keys.
	GenerateSalt() ([]byte, error)

	// DeriveMasterKey derives the 32-byte session master key from the
	// password and the user's stored encryption salt. Deterministic:
	// same password + same salt always produce the same key.
	DeriveMasterKey(password string, salt []byte) ([]byte, error)

	// Encrypt seals plaintext into a self-describing envelope:
	// secretSalt(16) ‖ nonce(12) ‖ AES-256-GCM ciphertext+tag.
	// Non-deterministic: repeated calls with identical inputs differ.
	Encrypt(masterKey []byte, plaintext string) ([]byte, error)

	// Decrypt opens an envelope produced by Encrypt. Returns
	// [ErrInvalidEnvelope] when the input is too short to contain any
	// ciphertext, [ErrDecryptionFailed] when authentication fails (wrong
	// key or tampering, indistinguishable by design), and [ErrInvalidUTF8]
	// when an authenticated plaintext is not valid UTF-8, which cannot
	// happen for data written by this vault and indicates a logic bug.
	Decrypt(masterKey []byte, envelope []byte) (string, error)
}
