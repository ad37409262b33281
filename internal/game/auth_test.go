package game

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/store"
)

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	code, _ := f.auth.Register(ctx, "alice", "secret")
	require.Equal(t, protocol.RCOK, code)

	// Duplicate registration is rejected.
	code, _ = f.auth.Register(ctx, "alice", "other")
	assert.Equal(t, protocol.RCAlready, code)

	// Wrong password.
	code, _, sess := f.auth.Login("alice", "wrong", 1)
	assert.Equal(t, protocol.RCAuthFail, code)
	assert.Nil(t, sess)

	// Unknown user gets the same answer as a wrong password.
	code, _, _ = f.auth.Login("nobody", "secret", 1)
	assert.Equal(t, protocol.RCAuthFail, code)

	code, _, sess = f.auth.Login("alice", "secret", 1)
	require.Equal(t, protocol.RCOK, code)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, strings.HasPrefix(sess.Token, "alice"))
	assert.EqualValues(t, 1, sess.Conn)

	got, ok := f.auth.Session(sess.Token)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	code, _ = f.auth.Logout(sess.Token)
	assert.Equal(t, protocol.RCOK, code)
	_, ok = f.auth.Session(sess.Token)
	assert.False(t, ok)

	// Logout twice fails.
	code, _ = f.auth.Logout(sess.Token)
	assert.Equal(t, protocol.RCAuthFail, code)
}

func TestRegisterRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret"},
		{"empty password", "bob", ""},
		{"colon in username", "bo:b", "secret"},
		{"space in username", "bo b", "secret"},
		{"too long", strings.Repeat("a", 65), "secret"},
		{"non ascii", "böb", "secret"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := f.auth.Register(ctx, tc.username, tc.password)
			assert.Equal(t, protocol.RCInvalid, code)
		})
	}
}

func TestRegisterRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.users.failOn = "Create"

	code, _ := f.auth.Register(context.Background(), "alice", "secret")
	require.Equal(t, protocol.RCServerError, code)

	// The cache insert must be rolled back so a retry can succeed.
	f.users.failOn = ""
	code, _ = f.auth.Register(context.Background(), "alice", "secret")
	assert.Equal(t, protocol.RCOK, code)
}

// wrappedDupStore wraps the duplicate-key sentinel the way a real backend
// annotating its errors would.
type wrappedDupStore struct {
	*mockUserStore
}

func (s *wrappedDupStore) Create(context.Context, model.User) error {
	return fmt.Errorf("inserting user: %w", store.ErrExists)
}

func TestRegisterRecognizesWrappedDuplicate(t *testing.T) {
	auth := NewAuthService(&wrappedDupStore{newMockUserStore()}, plainHasher{})
	require.NoError(t, auth.Load(context.Background()))

	// A wrapped ErrExists still means "taken", not a server error.
	code, _ := auth.Register(context.Background(), "alice", "secret")
	assert.Equal(t, protocol.RCAlready, code)
}

func TestLoginSupersedesPreviousSession(t *testing.T) {
	f := newFixture(t)
	token1 := f.login(t, "alice", 1)

	// Second login from another connection kills the first session.
	_, _, sess2 := f.auth.Login("alice", "secret", 2)
	require.NotNil(t, sess2)

	_, ok := f.auth.Session(token1)
	assert.False(t, ok)
	_, ok = f.auth.Session(sess2.Token)
	assert.True(t, ok)

	conn, ok := f.auth.ConnOf("alice")
	require.True(t, ok)
	assert.EqualValues(t, 2, conn)
	assert.Equal(t, 1, f.auth.SessionCount())
}

func TestDisconnectIsIdempotent(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", 7)

	name, had := f.auth.Disconnect(7)
	require.True(t, had)
	assert.Equal(t, "alice", name)
	_, ok := f.auth.Session(token)
	assert.False(t, ok)

	_, had = f.auth.Disconnect(7)
	assert.False(t, had)
}

func TestApplyMatchResultUpdatesSession(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", 1)

	wins, points, ok := f.auth.ApplyMatchResult("alice", 1, 10)
	require.True(t, ok)
	assert.EqualValues(t, 1, wins)
	assert.EqualValues(t, 10, points)

	sess, ok := f.auth.Session(token)
	require.True(t, ok)
	assert.EqualValues(t, 1, sess.Wins)
	assert.EqualValues(t, 10, sess.TotalPoints)

	_, _, ok = f.auth.ApplyMatchResult("nobody", 1, 10)
	assert.False(t, ok)
}

func TestCleanStaleDropsDeadSessions(t *testing.T) {
	f := newFixture(t)
	f.login(t, "alice", 1)
	f.login(t, "bob", 2)

	// Only connection 1 is still alive.
	removed := f.auth.CleanStale(func(conn model.ConnID) bool { return conn == 1 })
	assert.Equal(t, 1, removed)

	_, ok := f.auth.SessionByUsername("alice")
	assert.True(t, ok)
	_, ok = f.auth.SessionByUsername("bob")
	assert.False(t, ok)
}
