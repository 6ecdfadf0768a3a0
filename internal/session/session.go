// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maxim Fedotov

// Package session implements the authenticated vault session: the single
// place where account state, the in-memory master key and the secret
// operations meet.
//
// A Session is Unauthenticated or Authenticated. While Authenticated it
// holds the master key derived at login; the key exists nowhere else and is
// wiped on logout, on replacement by a new login, on account deletion, on
// idle expiry and on Close. Every secret operation is gated on the
// authenticated state and refreshes the last-activity timestamp consumed by
// the idle watcher.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfedotov/lockkey/internal/auth"
	"github.com/mfedotov/lockkey/internal/config"
	"github.com/mfedotov/lockkey/internal/crypto"
	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/internal/store"
	"github.com/mfedotov/lockkey/internal/workers"
	"github.com/mfedotov/lockkey/models"
)

// login is the Authenticated half of the session state. A nil *login means
// Unauthenticated.
//
// id distinguishes this login from any other login by the same or another
// user. The idle watcher keys on it, so a watcher spawned for a login that
// has since ended can never expire its successor.
type login struct {
	userID       int64
	username     string
	key          []byte
	id           uuid.UUID
	lastActivity time.Time
}

// Session owns the vault lifecycle for one process. All methods are safe
// for concurrent use; a single mutex serializes state transitions and
// secret operations.
type Session struct {
	hasher   auth.PasswordHasher
	keychain crypto.KeyChain
	store    *store.Store
	logger   *logger.Logger

	idleTimeout  time.Duration
	pollInterval time.Duration

	mu     sync.Mutex
	login  *login
	notify func()

	closeOnce sync.Once
	closeErr  error
}

// NewSession wires a session over an already-open store.
func NewSession(st *store.Store, cfg *config.StructuredConfig, log *logger.Logger) *Session {
	return &Session{
		hasher:       auth.NewAuthenticator(),
		keychain:     crypto.NewKeyChain(),
		store:        st,
		logger:       log,
		idleTimeout:  cfg.Session.IdleTimeout,
		pollInterval: cfg.Workers.PollInterval,
	}
}

// NotifyTimeout registers fn to be called once, from the watcher goroutine,
// whenever a login is force-expired after inactivity. Must be set before
// the login it should observe.
func (s *Session) NotifyTimeout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Authenticated reports whether a login is currently active.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login != nil
}

// Username returns the name of the logged-in account, or "" when
// Unauthenticated.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.login == nil {
		return ""
	}
	return s.login.username
}

// CreateAccount registers a new vault account. It does not log the account
// in and does not touch the current session state, so an active login
// survives the call untouched.
//
// The stored password hash and the encryption salt are independent: the
// hash proves knowledge of the password, the salt feeds key derivation at
// login time.
func (s *Session) CreateAccount(ctx context.Context, username, password string) error {
	log := s.logger.GetChildLogger()

	passwdHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return err
	}

	encSalt, err := s.keychain.GenerateSalt()
	if err != nil {
		return err
	}

	user, err := s.store.Users.CreateUser(ctx, models.User{
		Username:   username,
		PasswdHash: passwdHash,
		EncSalt:    encSalt,
	})
	if err != nil {
		return err
	}

	log.Info().Str("username", username).Int64("user_id", user.UserID).Msg("account created")
	return nil
}

// Login authenticates username/password, derives the master key and moves
// the session to Authenticated. A previous login, if any, is replaced and
// its key wiped.
//
// An unknown username and a wrong password both return
// [ErrInvalidCredentials]; nothing in the result distinguishes the two
// cases.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.GetChildLogger()

	user, err := s.store.Users.FindUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		log.Debug().Str("username", username).Msg("login rejected")
		return ErrInvalidCredentials
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswdHash)
	if err != nil {
		return err
	}
	if !ok {
		log.Debug().Str("username", username).Msg("login rejected")
		return ErrInvalidCredentials
	}

	key, err := s.keychain.DeriveMasterKey(password, user.EncSalt)
	if err != nil {
		return err
	}

	s.dropLoginLocked()
	s.login = &login{
		userID:       user.UserID,
		username:     user.Username,
		key:          key,
		id:           uuid.New(),
		lastActivity: time.Now(),
	}

	if s.idleTimeout > 0 && s.pollInterval > 0 {
		watcher := workers.NewIdleWatcher(s, s.login.id, s.idleTimeout, s.pollInterval, s.notify, s.logger)
		go workers.NewWorkers(watcher).Run()
	}

	log.Info().Str("username", username).Str("login_id", s.login.id.String()).Msg("login successful")
	return nil
}

// Logout wipes the master key and moves the session to Unauthenticated.
// Calling it while already Unauthenticated is a no-op.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLoginLocked()
}

// DeleteAccount removes the logged-in account and every secret it owns,
// then logs out. The password is re-verified first: holding an
// authenticated session is not enough to destroy the account.
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return err
	}

	user, err := s.store.Users.FindUserByID(ctx, l.userID)
	if err != nil {
		return err
	}
	if user == nil {
		// The account vanished underneath the login. Nothing left to
		// delete; drop the stale state.
		s.dropLoginLocked()
		return store.ErrUserNotFound
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswdHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}

	if err := s.store.Users.DeleteUser(ctx, user.Username); err != nil {
		return err
	}

	s.logger.GetChildLogger().Info().Str("username", user.Username).Msg("account deleted")
	s.dropLoginLocked()
	return nil
}

// StoreSecret encrypts data under the session master key and persists it
// under (kind, label).
func (s *Session) StoreSecret(ctx context.Context, kind models.Kind, label, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return err
	}

	envelope, err := s.keychain.Encrypt(l.key, data)
	if err != nil {
		return err
	}

	if err := s.store.Secrets.StoreSecret(ctx, models.Secret{
		UserID: l.userID,
		Kind:   kind,
		Label:  label,
		Data:   envelope,
	}); err != nil {
		return err
	}

	s.touchLocked()
	return nil
}

// EditSecret renames the secret at oldLabel to newLabel and replaces its
// content with freshly encrypted data. Rename and replace happen together
// or not at all. Pass oldLabel == newLabel to update content in place.
func (s *Session) EditSecret(ctx context.Context, oldLabel, newLabel, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return err
	}

	envelope, err := s.keychain.Encrypt(l.key, data)
	if err != nil {
		return err
	}

	if err := s.store.Secrets.EditSecret(ctx, l.userID, oldLabel, newLabel, envelope); err != nil {
		return err
	}

	s.touchLocked()
	return nil
}

// RetrieveSecret decrypts and returns the secret stored under label, or
// (nil, nil) when the logged-in account owns no such secret.
func (s *Session) RetrieveSecret(ctx context.Context, label string) (*models.SecretView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return nil, err
	}

	secret, err := s.store.Secrets.GetSecret(ctx, l.userID, label)
	if err != nil {
		return nil, err
	}
	if secret == nil {
		s.touchLocked()
		return nil, nil
	}

	plaintext, err := s.keychain.Decrypt(l.key, secret.Data)
	if err != nil {
		return nil, err
	}

	s.touchLocked()
	return &models.SecretView{
		Kind:  secret.Kind,
		Label: secret.Label,
		Data:  plaintext,
	}, nil
}

// ListLabels returns kind and label of every secret owned by the logged-in
// account, sorted by label. Nothing is decrypted.
func (s *Session) ListLabels(ctx context.Context) ([]models.LabelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return nil, err
	}

	labels, err := s.store.Secrets.GetLabels(ctx, l.userID)
	if err != nil {
		return nil, err
	}

	s.touchLocked()
	return labels, nil
}

// DeleteSecret removes the secret stored under label. Fails with
// [store.ErrSecretNotFound] when the logged-in account owns no such secret.
func (s *Session) DeleteSecret(ctx context.Context, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.requireLoginLocked()
	if err != nil {
		return err
	}

	if err := s.store.Secrets.DeleteSecret(ctx, l.userID, label); err != nil {
		return err
	}

	s.touchLocked()
	return nil
}

// Touch refreshes the last-activity timestamp without performing any vault
// operation. A no-op while Unauthenticated.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
}

// Matches implements [workers.IdleSession].
func (s *Session) Matches(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login != nil && s.login.id == id
}

// ExpireIfIdle implements [workers.IdleSession]: it force-logs-out the
// session iff it still belongs to the login identified by id and the last
// activity is older than window.
func (s *Session) ExpireIfIdle(id uuid.UUID, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.login == nil || s.login.id != id {
		return false
	}
	if time.Since(s.login.lastActivity) < window {
		return false
	}

	s.dropLoginLocked()
	return true
}

// Close logs out, wipes the master key and releases the store. Safe to call
// any number of times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.Logout()
		s.closeErr = s.store.Close()
	})
	return s.closeErr
}

// requireLoginLocked gates an operation on the Authenticated state.
// Callers must hold s.mu.
func (s *Session) requireLoginLocked() (*login, error) {
	if s.login == nil {
		return nil, ErrNotAuthenticated
	}
	return s.login, nil
}

func (s *Session) touchLocked() {
	if s.login != nil {
		s.login.lastActivity = time.Now()
	}
}

// dropLoginLocked wipes the master key and clears the login. The watcher
// bound to the dropped login notices the identity change on its next tick
// and exits. Callers must hold s.mu.
func (s *Session) dropLoginLocked() {
	if s.login == nil {
		return
	}
	crypto.Zeroize(s.login.key)
	s.login = nil
}
