package auth

import "errors"

var (
	// ErrHashingFailed is returned when hash generation fails internally
	// (practically only when the OS CSPRNG refuses to produce a salt).
	ErrHashingFailed = errors.New("password hashing failed")

	// ErrMalformedHash is returned when a stored hash string cannot be
	// parsed as a supported PHC encoding.
	ErrMalformedHash = errors.New("malformed password hash")
)
