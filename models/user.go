package models

// User represents a vault account. It contains identity attributes and
// credential-related data. Sensitive fields must never be exposed outside
// trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// Assigned by the database and never reused for another username.
	UserID int64 `json:"-"`

	// Username is the unique account name, at most 24 characters.
	Username string `json:"username"`

	// PasswdHash is the PHC-encoded argon2id hash of the master password.
	// It is self-describing: algorithm, cost parameters and salt are all
	// embedded in the string, so it stays verifiable even after the
	// default parameters change.
	PasswdHash string `json:"-"`

	// EncSalt is the 16-byte salt used to re-derive the encryption key
	// from the master password at login. Generated once at account
	// creation and never changed afterwards.
	EncSalt []byte `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
