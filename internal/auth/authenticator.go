// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// phcPrefix identifies the only hash function this vault ever writes.
// Verification still honours whatever cost parameters a stored string
// carries, so hashes created under older defaults keep working.
const phcPrefix = "$argon2id$"

// authenticator is the private implementation of [PasswordHasher].
type authenticator struct {
	// Argon2id tuning parameters used for newly created hashes. Stored in
	// the struct so they can be adjusted per deployment target. Existing
	// hashes are verified with their own embedded parameters instead.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
	saltLen      uint32
}

// NewAuthenticator constructs a [PasswordHasher] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - output:      32 bytes (256 bits)
func NewAuthenticator() PasswordHasher {
	return &authenticator{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
		saltLen:      16,
	}
}

// HashPassword implements [PasswordHasher]. It reads a fresh salt from the
// OS CSPRNG, runs Argon2id over the password and encodes everything needed
// for later verification into the returned PHC string.
func (a *authenticator) HashPassword(password string) (string, error) {
	salt := make([]byte, a.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingFailed, err)
	}

	sum := argon2.IDKey([]byte(password), salt, a.argonTime, a.argonMemory, a.argonThreads, a.argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.argonMemory,
		a.argonTime,
		a.argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	)

	return encoded, nil
}

// VerifyPassword implements [PasswordHasher]. It parses encoded, re-derives
// the hash with the embedded parameters and compares the result in constant
// time, so a mismatch reveals nothing about where the difference occurred.
func (a *authenticator) VerifyPassword(password, encoded string) (bool, error) {
	params, salt, want, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// phcParams are the cost parameters recovered from a stored PHC string.
type phcParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

// decodePHC splits an argon2id PHC string into its parameters, salt and raw
// hash. Any structural problem maps to [ErrMalformedHash]; the underlying
// cause is wrapped for diagnostics.
func decodePHC(encoded string) (phcParams, []byte, []byte, error) {
	var params phcParams

	if !strings.HasPrefix(encoded, phcPrefix) {
		return params, nil, nil, fmt.Errorf("%w: unsupported algorithm", ErrMalformedHash)
	}

	parts := strings.Split(encoded, "$")
	// ["", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash]
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("%w: want 6 segments, got %d", ErrMalformedHash, len(parts))
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: incompatible argon2 version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if params.memory == 0 || params.time == 0 || params.threads == 0 {
		return params, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	sum, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	if len(sum) == 0 {
		return params, nil, nil, fmt.Errorf("%w: empty hash", ErrMalformedHash)
	}

	return params, salt, sum, nil
}
