// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
)

const (
	// SaltLen is the length of both the per-user encryption salt and the
	// per-secret salt at the head of every envelope.
	SaltLen = 16

	// KeyLen is the length of the master key and of every cipher key.
	KeyLen = 32

	nonceLen = 12

	// envelopeHeaderLen is salt + nonce; an envelope must be strictly
	// longer than this to contain any ciphertext at all.
	envelopeHeaderLen = SaltLen + nonceLen
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters for both derivation stages. Independent
	// from the password-hashing parameters in internal/auth: changing one
	// must never silently change the other, or stored secrets become
	// unreadable.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
}

// NewKeyChain constructs a [KeyChain] with Argon2id parameters of
// 2 iterations, 19 MiB memory and a single thread for both the master-key
// and the cipher-key stage. These are pinned for the life of the vault
// format; every stored envelope depends on them.
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    2,
		argonMemory:  19 * 1024, // 19 MiB
		argonThreads: 1,
	}
}

// GenerateSalt implements [KeyChain]. It reads [SaltLen] random bytes from
// the OS CSPRNG. Returns an error if the random read fails.
func (k *keyChain) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveMasterKey implements [KeyChain].
func (k *keyChain) DeriveMasterKey(password string, salt []byte) ([]byte, error) {
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("%w: salt length %d, want %d", ErrKeyDerivationFailed, len(salt), SaltLen)
	}

	return argon2.IDKey([]byte(password), salt, k.argonTime, k.argonMemory, k.argonThreads, KeyLen), nil
}

// deriveCipherKey runs the second derivation stage: master key + per-secret
// salt → one-shot AEAD key.
func (k *keyChain) deriveCipherKey(masterKey, secretSalt []byte) ([]byte, error) {
	if len(masterKey) != KeyLen {
		return nil, fmt.Errorf("%w: master key length %d, want %d", ErrKeyDerivationFailed, len(masterKey), KeyLen)
	}

	return argon2.IDKey(masterKey, secretSalt, k.argonTime, k.argonMemory, k.argonThreads, KeyLen), nil
}

// Encrypt implements [KeyChain]. The envelope layout is
// salt(16) ‖ nonce(12) ‖ ciphertext+tag; everything needed for decryption
// except the master key travels inside the envelope itself.
//
// Salt and nonce are drawn fresh per call. Collisions across two
// encryptions under the same master key would need a repeated 16-byte salt
// and 12-byte nonce; the birthday bound on 224 random bits is far beyond
// any realistic secret count.
func (k *keyChain) Encrypt(masterKey []byte, plaintext string) ([]byte, error) {
	secretSalt, err := k.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	cipherKey, err := k.deriveCipherKey(masterKey, secretSalt)
	if err != nil {
		return nil, err
	}
	defer Zeroize(cipherKey)

	gcm, err := newGCM(cipherKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	envelope := make([]byte, 0, envelopeHeaderLen+len(plaintext)+gcm.Overhead())
	envelope = append(envelope, secretSalt...)
	envelope = append(envelope, nonce...)
	envelope = gcm.Seal(envelope, nonce, []byte(plaintext), nil)

	return envelope, nil
}

// Decrypt implements [KeyChain].
func (k *keyChain) Decrypt(masterKey []byte, envelope []byte) (string, error) {
	if len(envelope) <= envelopeHeaderLen {
		return "", fmt.Errorf("%w: %d bytes", ErrInvalidEnvelope, len(envelope))
	}

	secretSalt := envelope[:SaltLen]
	nonce := envelope[SaltLen:envelopeHeaderLen]
	ciphertext := envelope[envelopeHeaderLen:]

	cipherKey, err := k.deriveCipherKey(masterKey, secretSalt)
	if err != nil {
		return "", err
	}
	defer Zeroize(cipherKey)

	gcm, err := newGCM(cipherKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	// A tag mismatch must stay a generic failure: do not expose whether the
	// key was wrong or which byte of the ciphertext differed.
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer Zeroize(plaintext)

	if !utf8.Valid(plaintext) {
		return "", ErrInvalidUTF8
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Zeroize overwrites b in place. Used on every exit path that releases key
// material or decrypted plaintext buffers.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
