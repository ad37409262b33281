package game

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"wordduel/internal/model"
	"wordduel/internal/store"
	"wordduel/internal/words"
)

// mockUserStore implements store.UserStore in memory.
type mockUserStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	failOn  string // method name to fail on
	updates int
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]model.User)}
}

func (s *mockUserStore) LoadAll(_ context.Context) ([]model.User, error) {
	if s.failOn == "LoadAll" {
		return nil, errMock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *mockUserStore) Create(_ context.Context, user model.User) error {
	if s.failOn == "Create" {
		return errMock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return store.ErrExists
	}
	s.users[user.Username] = user
	return nil
}

func (s *mockUserStore) UpdateStats(_ context.Context, username string, wins, totalPoints uint32) error {
	if s.failOn == "UpdateStats" {
		return errMock
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return store.ErrNotFound
	}
	u.Wins = wins
	u.TotalPoints = totalPoints
	s.users[username] = u
	s.updates++
	return nil
}

// mockHistoryStore implements store.HistoryStore in memory.
type mockHistoryStore struct {
	mu      sync.Mutex
	records map[string][]model.HistoryRecord
}

func newMockHistoryStore() *mockHistoryStore {
	return &mockHistoryStore{records: make(map[string][]model.HistoryRecord)}
}

func (s *mockHistoryStore) Append(_ context.Context, username string, rec model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[username] = append(s.records[username], rec)
	return nil
}

func (s *mockHistoryStore) List(_ context.Context, username string) ([]model.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HistoryRecord(nil), s.records[username]...), nil
}

var errMock = &mockError{}

type mockError struct{}

func (*mockError) Error() string { return "mock store error" }

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "plain:"+password }

// testCorpus writes fixed single-word lists so deterministic mode always
// plays GAME, COMPUTER, PROGRAMMING.
func testCorpus(t *testing.T) *words.Corpus {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"round1.txt": "GAME\nWORD\n",
		"round2.txt": "COMPUTER\nKEYBOARD\n",
		"round3.txt": "PROGRAMMING\nLABORATORY\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	c, err := words.Load(
		filepath.Join(dir, "round1.txt"),
		filepath.Join(dir, "round2.txt"),
		filepath.Join(dir, "round3.txt"),
	)
	require.NoError(t, err)
	return c
}

// fixture wires the full service stack on mocks with deterministic words.
type fixture struct {
	auth       *AuthService
	rooms      *RoomService
	matches    *MatchService
	beforePlay *BeforePlayService
	summary    *SummaryService
	users      *mockUserStore
	history    *mockHistoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMockUserStore()
	history := newMockHistoryStore()
	auth := NewAuthService(users, plainHasher{})
	require.NoError(t, auth.Load(context.Background()))
	rooms := NewRoomService()
	matches := NewMatchService(testCorpus(t), auth, users, history, true)
	return &fixture{
		auth:       auth,
		rooms:      rooms,
		matches:    matches,
		beforePlay: NewBeforePlayService(auth, rooms, matches),
		summary:    NewSummaryService(auth, history),
		users:      users,
		history:    history,
	}
}

// login registers and logs in a player, returning the session token.
func (f *fixture) login(t *testing.T, username string, conn model.ConnID) string {
	t.Helper()
	code, _ := f.auth.Register(context.Background(), username, "secret")
	require.Contains(t, []uint8{0, 5}, uint8(code), "register %s", username)
	loginCode, _, sess := f.auth.Login(username, "secret", conn)
	require.EqualValues(t, 0, loginCode, "login %s", username)
	require.NotNil(t, sess)
	return sess.Token
}

// startMatch brings two players through room, ready and start. Returns
// tokens of host and guest plus the room id (which doubles as match id).
func (f *fixture) startMatch(t *testing.T, host, guest string) (hostToken, guestToken string, roomID uint32) {
	t.Helper()
	hostToken = f.login(t, host, 1)
	guestToken = f.login(t, guest, 2)

	code, _, roomID := f.rooms.Create(host, 1, host+"'s room")
	require.EqualValues(t, 0, code)

	inv := f.beforePlay.SendInvite(hostToken, guest, roomID)
	require.EqualValues(t, 0, inv.Code)
	resp := f.beforePlay.RespondInvite(guestToken, host, true)
	require.EqualValues(t, 0, resp.Code)
	require.True(t, resp.Accepted)

	require.EqualValues(t, 0, f.beforePlay.SetReady(hostToken, roomID, true).Code)
	require.EqualValues(t, 0, f.beforePlay.SetReady(guestToken, roomID, true).Code)

	out := f.beforePlay.StartGame(hostToken, roomID)
	require.EqualValues(t, 0, out.Code)
	require.EqualValues(t, 4, out.WordLength)
	require.EqualValues(t, 1, out.Round)
	return hostToken, guestToken, roomID
}
