package session

import "errors"

var (
	// ErrNotAuthenticated is returned by every vault operation invoked
	// while no login is active.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials is returned when a login or account deletion
	// presents a wrong password. An unknown username produces the same
	// error, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
