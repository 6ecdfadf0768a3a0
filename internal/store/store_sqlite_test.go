package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfedotov/lockkey/internal/config"
	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vault_test.db")
	s, err := Open(context.Background(), config.DB{Path: path}, logger.Nop())
	require.NoError(t, err, "should open test store")

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()

	user, err := s.Users.CreateUser(context.Background(), models.User{
		Username:   username,
		PasswdHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		EncSalt:    bytes.Repeat([]byte{0x42}, 16),
	})
	require.NoError(t, err, "should create user %s", username)
	return user
}

func testEnvelope(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 40)
}

func TestOpen_CreatesSchemaAndFile(t *testing.T) {
	s := openTestStore(t)

	user := createTestUser(t, s, "alice")
	assert.Positive(t, user.UserID)

	found, err := s.Users.FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.UserID, found.UserID)
	assert.Equal(t, "alice", found.Username)
	assert.Len(t, found.EncSalt, 16)
}

func TestCreateUser_UsernameTaken(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "alice")

	_, err := s.Users.CreateUser(ctx, models.User{
		Username:   "alice",
		PasswdHash: "hash",
		EncSalt:    bytes.Repeat([]byte{0x43}, 16),
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestDeleteUser_IDNeverReused(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.Users.DeleteUser(ctx, "alice"))

	bob := createTestUser(t, s, "bob")
	assert.Greater(t, bob.UserID, alice.UserID,
		"a new account must never inherit a deleted account's user_id")
}

func TestFindUser_AbsentIsNilNil(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	user, err := s.Users.FindUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = s.Users.FindUserByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSecrets_UniquePerUserNotGlobally(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindPassword, Label: "gmail", Data: testEnvelope(0x01),
	}))

	// Same label by the same owner collides.
	err := s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindText, Label: "gmail", Data: testEnvelope(0x02),
	})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	// Same label by a different owner is fine.
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: bob.UserID, Kind: models.KindPassword, Label: "gmail", Data: testEnvelope(0x03),
	}))
}

func TestSecrets_OwnerIsolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindPassword, Label: "gmail", Data: testEnvelope(0x01),
	}))
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindText, Label: "notes", Data: testEnvelope(0x02),
	}))
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: bob.UserID, Kind: models.KindPassword, Label: "bank", Data: testEnvelope(0x03),
	}))

	aliceLabels, err := s.Secrets.GetLabels(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, []models.LabelEntry{
		{Kind: models.KindPassword, Label: "gmail"},
		{Kind: models.KindText, Label: "notes"},
	}, aliceLabels)

	bobLabels, err := s.Secrets.GetLabels(ctx, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, []models.LabelEntry{
		{Kind: models.KindPassword, Label: "bank"},
	}, bobLabels)

	// Bob cannot address Alice's secret through his own user id.
	secret, err := s.Secrets.GetSecret(ctx, bob.UserID, "gmail")
	require.NoError(t, err)
	assert.Nil(t, secret)
}

func TestEditSecret_AtomicRenameAndReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindPassword, Label: "gmail", Data: testEnvelope(0x01),
	}))

	newData := testEnvelope(0x09)
	require.NoError(t, s.Secrets.EditSecret(ctx, alice.UserID, "gmail", "gmail2", newData))

	old, err := s.Secrets.GetSecret(ctx, alice.UserID, "gmail")
	require.NoError(t, err)
	assert.Nil(t, old, "old label must be gone after rename")

	renamed, err := s.Secrets.GetSecret(ctx, alice.UserID, "gmail2")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, newData, renamed.Data)
	assert.Equal(t, models.KindPassword, renamed.Kind)
}

func TestDeleteUser_CascadesToSecrets(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindPassword, Label: "gmail", Data: testEnvelope(0x01),
	}))

	require.NoError(t, s.Users.DeleteUser(ctx, "alice"))

	labels, err := s.Secrets.GetLabels(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Empty(t, labels, "secrets must not outlive their owner")
}

func TestDeleteSecret(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	require.NoError(t, s.Secrets.StoreSecret(ctx, models.Secret{
		UserID: alice.UserID, Kind: models.KindText, Label: "notes", Data: testEnvelope(0x01),
	}))

	require.NoError(t, s.Secrets.DeleteSecret(ctx, alice.UserID, "notes"))

	secret, err := s.Secrets.GetSecret(ctx, alice.UserID, "notes")
	require.NoError(t, err)
	assert.Nil(t, secret)

	assert.ErrorIs(t, s.Secrets.DeleteSecret(ctx, alice.UserID, "notes"), ErrSecretNotFound)
}

func TestStore_CloseIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}
