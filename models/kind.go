package models

import "fmt"

// Kind is the semantic type of a stored secret. It controls nothing about
// how the secret is encrypted; it only tells the presentation layer whether
// the decrypted value should be masked (password) or shown as-is (text).
type Kind string

const (
	KindPassword Kind = "password"
	KindText     Kind = "text"
)

// ParseKind converts a raw string into a Kind.
// Returns an error for anything other than "password" or "text".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPassword:
		return KindPassword, nil
	case KindText:
		return KindText, nil
	default:
		return "", fmt.Errorf("unknown secret kind %q", s)
	}
}

// Valid reports whether k is one of the recognized Kind values.
func (k Kind) Valid() bool {
	return k == KindPassword || k == KindText
}

func (k Kind) String() string {
	return string(k)
}
