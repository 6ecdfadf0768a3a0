package models

// Secret is a single stored secret as persisted: the Data field always holds
// the opaque ciphertext envelope, never plaintext. Encryption and decryption
// happen strictly above the storage layer.
type Secret struct {
	ID     int64  `json:"-"`
	UserID int64  `json:"-"`
	Kind   Kind   `json:"kind"`
	Label  string `json:"label"`
	Data   []byte `json:"-"`
}

// TableName returns the name of the database table
// associated with the Secret model.
func (s Secret) TableName() string {
	return "secrets"
}

// LabelEntry is one row of a label listing: the label together with its kind,
// without touching the ciphertext.
type LabelEntry struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
}

// SecretView is a decrypted secret as returned to the host adapter.
type SecretView struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Data  string `json:"data"`
}
