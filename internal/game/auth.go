// Package game holds the process-scoped services behind the dispatch
// pipeline: auth/session registry, room registry, pre-game flows, the match
// engine and the history/leaderboard queries. Each service guards its maps
// with a single mutex; no file or database I/O happens under a lock.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/store"
)

// Username and password length bounds in bytes.
const (
	minCredentialLen = 1
	maxCredentialLen = 64
)

// PasswordHasher is the shape of the password-hashing primitive the auth
// service calls. The concrete algorithm is pluggable for tests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher hashes passwords with bcrypt at the default cost.
type BcryptHasher struct{}

// Hash returns the bcrypt hash of password.
func (BcryptHasher) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether password matches the stored bcrypt hash.
func (BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthService owns the user cache and the live session registry.
// Sessions are keyed by token and additionally indexed by username and by
// connection id. Invariants: at most one session per username (a new login
// supersedes the old one) and at most one session per connection.
type AuthService struct {
	mu      sync.Mutex
	users   map[string]*model.User
	byToken map[string]*model.Session
	byUser  map[string]string       // username -> token
	byConn  map[model.ConnID]string // conn -> token

	store  store.UserStore
	hasher PasswordHasher
}

// NewAuthService creates the auth service. Call Load before serving.
func NewAuthService(userStore store.UserStore, hasher PasswordHasher) *AuthService {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &AuthService{
		users:   make(map[string]*model.User),
		byToken: make(map[string]*model.Session),
		byUser:  make(map[string]string),
		byConn:  make(map[model.ConnID]string),
		store:   userStore,
		hasher:  hasher,
	}
}

// Load warms the in-memory user cache from the store.
func (s *AuthService) Load(ctx context.Context) error {
	users, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range users {
		u := users[i]
		s.users[u.Username] = &u
	}
	slog.Info("user records loaded", "count", len(users))
	return nil
}

func validCredential(v string) bool {
	if len(v) < minCredentialLen || len(v) > maxCredentialLen {
		return false
	}
	for i := 0; i < len(v); i++ {
		// Printable ASCII only; ':' is the store's field separator.
		if v[i] <= 0x20 || v[i] >= 0x7F || v[i] == ':' {
			return false
		}
	}
	return true
}

// Register creates a new account. The in-memory insert is rolled back if
// the store write fails.
func (s *AuthService) Register(ctx context.Context, username, password string) (protocol.ResultCode, string) {
	if !validCredential(username) || !validCredential(password) {
		return protocol.RCInvalid, "username and password must be 1-64 printable ASCII characters"
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.Error("password hashing failed", "user", username, "error", err)
		return protocol.RCServerError, "internal error"
	}

	user := model.User{Username: username, PasswordHash: hash}

	s.mu.Lock()
	if _, exists := s.users[username]; exists {
		s.mu.Unlock()
		return protocol.RCAlready, "username already taken"
	}
	s.users[username] = &user
	s.mu.Unlock()

	// Store write outside the lock; roll back the cache insert on failure.
	if err := s.store.Create(ctx, user); err != nil {
		s.mu.Lock()
		delete(s.users, username)
		s.mu.Unlock()
		if errors.Is(err, store.ErrExists) {
			return protocol.RCAlready, "username already taken"
		}
		slog.Error("persisting new user failed", "user", username, "error", err)
		return protocol.RCServerError, "could not persist account"
	}

	slog.Info("user registered", "user", username)
	return protocol.RCOK, "registered"
}

// Login verifies credentials and installs a session bound to conn.
// A previous session of the same user, or a previous session on the same
// connection, is superseded.
func (s *AuthService) Login(username, password string, conn model.ConnID) (protocol.ResultCode, string, *model.Session) {
	if !validCredential(username) || !validCredential(password) {
		return protocol.RCInvalid, "username and password must be 1-64 printable ASCII characters", nil
	}

	s.mu.Lock()
	user, ok := s.users[username]
	if !ok {
		s.mu.Unlock()
		return protocol.RCAuthFail, "unknown user or wrong password", nil
	}
	hash := user.PasswordHash
	s.mu.Unlock()

	// bcrypt is deliberately slow; verify outside the lock.
	if !s.hasher.Verify(hash, password) {
		return protocol.RCAuthFail, "unknown user or wrong password", nil
	}

	sess := &model.Session{
		Token:     mintToken(username),
		Username:  username,
		CreatedAt: time.Now(),
		Conn:      conn,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read stats under the lock; they may have moved since the hash read.
	if user, ok = s.users[username]; !ok {
		return protocol.RCAuthFail, "unknown user or wrong password", nil
	}
	sess.Wins = user.Wins
	sess.TotalPoints = user.TotalPoints

	s.removeSessionByUserLocked(username)
	s.removeSessionByConnLocked(conn)

	s.byToken[sess.Token] = sess
	s.byUser[username] = sess.Token
	s.byConn[conn] = sess.Token

	slog.Info("user logged in", "user", username, "conn", conn)
	out := *sess
	return protocol.RCOK, "welcome", &out
}

// mintToken builds the opaque session token: username + unix seconds +
// a 6-digit random suffix.
func mintToken(username string) string {
	return fmt.Sprintf("%s%d%06d", username, time.Now().Unix(), rand.IntN(1000000))
}

// Logout removes the session identified by token.
func (s *AuthService) Logout(token string) (protocol.ResultCode, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return protocol.RCAuthFail, "invalid session"
	}
	s.removeSessionLocked(sess)
	slog.Info("user logged out", "user", sess.Username)
	return protocol.RCOK, "goodbye"
}

// Disconnect removes every session bound to conn. Idempotent; returns the
// username that was logged in on the connection, if any.
func (s *AuthService) Disconnect(conn model.ConnID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.byConn[conn]
	if !ok {
		return "", false
	}
	sess := s.byToken[token]
	s.removeSessionLocked(sess)
	return sess.Username, true
}

func (s *AuthService) removeSessionLocked(sess *model.Session) {
	delete(s.byToken, sess.Token)
	if s.byUser[sess.Username] == sess.Token {
		delete(s.byUser, sess.Username)
	}
	if s.byConn[sess.Conn] == sess.Token {
		delete(s.byConn, sess.Conn)
	}
}

func (s *AuthService) removeSessionByUserLocked(username string) {
	if token, ok := s.byUser[username]; ok {
		s.removeSessionLocked(s.byToken[token])
	}
}

func (s *AuthService) removeSessionByConnLocked(conn model.ConnID) {
	if token, ok := s.byConn[conn]; ok {
		s.removeSessionLocked(s.byToken[token])
	}
}

// Session returns a copy of the session for token.
func (s *AuthService) Session(token string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return model.Session{}, false
	}
	return *sess, true
}

// SessionByUsername returns a copy of the session of the given user.
func (s *AuthService) SessionByUsername(username string) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.byUser[username]
	if !ok {
		return model.Session{}, false
	}
	return *s.byToken[token], true
}

// ConnOf returns the connection id of the given user's session.
func (s *AuthService) ConnOf(username string) (model.ConnID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.byUser[username]
	if !ok {
		return model.NoConn, false
	}
	return s.byToken[token].Conn, true
}

// OnlineUsernames returns the usernames of all live sessions.
func (s *AuthService) OnlineUsernames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.byUser))
	for name := range s.byUser {
		names = append(names, name)
	}
	return names
}

// SessionCount returns the number of live sessions.
func (s *AuthService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

// ApplyMatchResult adds the deltas to the user's cached stats and to any
// live session of that user, returning the new totals. The caller persists
// the totals via the store afterwards, outside any service lock.
func (s *AuthService) ApplyMatchResult(username string, winDelta, pointsDelta uint32) (wins, totalPoints uint32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return 0, 0, false
	}
	user.Wins += winDelta
	user.TotalPoints += pointsDelta

	if token, online := s.byUser[username]; online {
		sess := s.byToken[token]
		sess.Wins = user.Wins
		sess.TotalPoints = user.TotalPoints
	}
	return user.Wins, user.TotalPoints, true
}

// Users returns a snapshot of all cached user records.
func (s *AuthService) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out
}

// CleanStale removes sessions whose connection is no longer live. Disconnect
// cleanup already covers the normal path; this is the periodic sweep behind it.
func (s *AuthService) CleanStale(isLive func(model.ConnID) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, sess := range s.byToken {
		if isLive(sess.Conn) {
			continue
		}
		s.removeSessionLocked(sess)
		removed++
	}
	if removed > 0 {
		slog.Debug("stale sessions reaped", "count", removed)
	}
	return removed
}
