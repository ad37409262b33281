package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/protocol"
)

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Two matches back to back; history lists the newer one first.
	hostToken, _, roomID := f.startMatch(t, "alice", "bob")
	f.matches.EndGame(ctx, hostToken, roomID, roomID, EndCallerWon)
	f.rooms.Release(roomID)

	hostToken2, _, roomID2 := f.startMatch(t, "alice", "bob")
	f.matches.EndGame(ctx, hostToken2, roomID2, roomID2, EndDraw)

	code, records := f.summary.History(ctx, hostToken2)
	require.Equal(t, protocol.RCOK, code)
	require.Len(t, records, 2)
	assert.Equal(t, "draw", records[0].Result)
	assert.Equal(t, "win", records[1].Result)

	code, _ = f.summary.History(ctx, "bogus")
	assert.Equal(t, protocol.RCAuthFail, code)
}

func TestLeaderboardOrdering(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "alice", 1)
	f.login(t, "bob", 2)
	f.login(t, "carol", 3)

	f.auth.ApplyMatchResult("bob", 2, 40)
	f.auth.ApplyMatchResult("carol", 2, 55)
	f.auth.ApplyMatchResult("alice", 1, 99)

	code, entries := f.summary.Leaderboard(token)
	require.Equal(t, protocol.RCOK, code)
	require.Len(t, entries, 3)

	// Wins first, then points, then name.
	assert.Equal(t, "carol", entries[0].Username)
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, "alice", entries[2].Username)
	assert.EqualValues(t, 1, entries[0].Rank)
	assert.EqualValues(t, 2, entries[1].Rank)
	assert.EqualValues(t, 3, entries[2].Rank)

	code, _ = f.summary.Leaderboard("bogus")
	assert.Equal(t, protocol.RCAuthFail, code)
}

func TestLeaderboardTiesBreakByName(t *testing.T) {
	f := newFixture(t)
	token := f.login(t, "zed", 1)
	f.login(t, "amy", 2)

	code, entries := f.summary.Leaderboard(token)
	require.Equal(t, protocol.RCOK, code)
	require.Len(t, entries, 2)
	assert.Equal(t, "amy", entries[0].Username)
	assert.Equal(t, "zed", entries[1].Username)
}
