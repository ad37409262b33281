package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/model"
	"wordduel/internal/store"
)

func TestUserStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.txt")
	s := NewUserStore(path)

	// Missing file reads as empty, not as an error.
	users, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	alice := model.User{Username: "alice", PasswordHash: "h1", Wins: 3, TotalPoints: 120}
	bob := model.User{Username: "bob", PasswordHash: "h2"}
	require.NoError(t, s.Create(ctx, alice))
	require.NoError(t, s.Create(ctx, bob))

	// Reopen to prove the state survived the process, not just the map.
	s2 := NewUserStore(path)
	users, err = s2.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, alice, users[0])
	assert.Equal(t, bob, users[1])
}

func TestUserStoreCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(filepath.Join(t.TempDir(), "users.txt"))

	require.NoError(t, s.Create(ctx, model.User{Username: "alice", PasswordHash: "h"}))
	err := s.Create(ctx, model.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, store.ErrExists)
}

func TestUserStoreUpdateStats(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.txt")
	s := NewUserStore(path)

	require.NoError(t, s.Create(ctx, model.User{Username: "alice", PasswordHash: "h"}))
	require.NoError(t, s.UpdateStats(ctx, "alice", 5, 250))

	users, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.EqualValues(t, 5, users[0].Wins)
	assert.EqualValues(t, 250, users[0].TotalPoints)

	err = s.UpdateStats(ctx, "nobody", 1, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStoreRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte("alice:h:3:120\ngarbage line\n"), 0o644))

	_, err := NewUserStore(path).LoadAll(context.Background())
	assert.Error(t, err)
}

func TestAtomicWriteCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "users.txt")
	s := NewUserStore(path)

	require.NoError(t, s.Create(context.Background(), model.User{Username: "alice", PasswordHash: "h"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice:h:0:0\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewHistoryStore(t.TempDir())

	// Missing user reads as empty history.
	records, err := s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, records)

	first := model.HistoryRecord{
		When:        time.Date(2026, 8, 20, 14, 30, 5, 0, time.Local),
		Opponent:    "bob",
		Result:      "win",
		RoundScores: [3]uint32{40, 55, 80},
	}
	second := model.HistoryRecord{
		When:        time.Date(2026, 8, 21, 9, 0, 0, 0, time.Local),
		Opponent:    "carol",
		Result:      "draw",
		RoundScores: [3]uint32{10, 0, 25},
	}
	require.NoError(t, s.Append(ctx, "alice", first))
	require.NoError(t, s.Append(ctx, "alice", second))

	records, err = s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])

	// Other users keep their own files.
	records, err = s.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryFileLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewHistoryStore(dir)

	rec := model.HistoryRecord{
		When:        time.Date(2026, 8, 20, 14, 30, 5, 0, time.Local),
		Opponent:    "bob",
		Result:      "loss",
		RoundScores: [3]uint32{1, 2, 3},
	}
	require.NoError(t, s.Append(ctx, "alice", rec))

	data, err := os.ReadFile(filepath.Join(dir, "alice.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2026-08-20 14:30:05:bob:loss:1:2:3\n", string(data))
}

func TestHistoryRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.txt"),
		[]byte("2026-08-20 14:30:05:bob:win:1:2:notanumber\n"), 0o644))

	_, err := NewHistoryStore(dir).List(context.Background(), "alice")
	assert.Error(t, err)
}
