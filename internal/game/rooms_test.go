package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
)

func TestCreateAndJoinRoom(t *testing.T) {
	rooms := NewRoomService()

	code, _, id := rooms.Create("alice", 1, "fun room")
	require.Equal(t, protocol.RCOK, code)
	require.NotZero(t, id)

	// One room per user.
	code, _, _ = rooms.Create("alice", 1, "second")
	assert.Equal(t, protocol.RCAlready, code)

	code, _, joined := rooms.Join(id, "bob", 2)
	require.Equal(t, protocol.RCOK, code)
	require.NotNil(t, joined)
	assert.Len(t, joined.Members, 2)
	assert.Equal(t, "alice", joined.Host)

	// A full room rejects a third member.
	code, _, _ = rooms.Join(id, "carol", 3)
	assert.Equal(t, protocol.RCFail, code)

	// Unknown room.
	code, _, _ = rooms.Join(999, "carol", 3)
	assert.Equal(t, protocol.RCNotFound, code)
}

func TestJoinRejectedWhilePlaying(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")
	require.True(t, rooms.SetRoomState(id, model.RoomPlaying))

	code, _, _ := rooms.Join(id, "bob", 2)
	assert.Equal(t, protocol.RCFail, code)
}

func TestLeavePromotesRemainingMember(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")
	_, _, _ = rooms.Join(id, "bob", 2)

	// Host leaves: bob inherits the room.
	out := rooms.Leave("alice", id)
	require.Equal(t, protocol.RCOK, out.Code)
	assert.False(t, out.RoomDeleted)
	assert.True(t, out.IsNewHost)
	assert.EqualValues(t, 2, out.NotifyConn)
	assert.Equal(t, "alice", out.LeftUser)

	room, ok := rooms.Room(id)
	require.True(t, ok)
	assert.Equal(t, "bob", room.Host)

	// Last member leaves: room is deleted.
	out = rooms.Leave("bob", id)
	require.Equal(t, protocol.RCOK, out.Code)
	assert.True(t, out.RoomDeleted)
	_, ok = rooms.Room(id)
	assert.False(t, ok)
}

func TestLeaveNonMemberFails(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")

	out := rooms.Leave("bob", id)
	assert.Equal(t, protocol.RCFail, out.Code)
	out = rooms.Leave("alice", 999)
	assert.Equal(t, protocol.RCNotFound, out.Code)
}

func TestKick(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")
	_, _, _ = rooms.Join(id, "bob", 2)

	// Only the host can kick.
	out := rooms.Kick(id, "bob", "alice")
	assert.Equal(t, protocol.RCFail, out.Code)

	// The host cannot kick themselves.
	out = rooms.Kick(id, "alice", "alice")
	assert.Equal(t, protocol.RCNotFound, out.Code)

	out = rooms.Kick(id, "alice", "bob")
	require.Equal(t, protocol.RCOK, out.Code)
	assert.EqualValues(t, 2, out.TargetConn)
	assert.False(t, rooms.IsUserInRoom("bob"))

	// Kicked players can join again.
	code, _, _ := rooms.Join(id, "bob", 2)
	assert.Equal(t, protocol.RCOK, code)
}

func TestReleaseReturnsMemberConns(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")
	_, _, _ = rooms.Join(id, "bob", 2)

	conns := rooms.Release(id)
	assert.ElementsMatch(t, []model.ConnID{1, 2}, conns)
	_, ok := rooms.Room(id)
	assert.False(t, ok)
	assert.False(t, rooms.IsUserInRoom("alice"))
	assert.False(t, rooms.IsUserInRoom("bob"))
}

func TestRoomSnapshotIsDetached(t *testing.T) {
	rooms := NewRoomService()
	_, _, id := rooms.Create("alice", 1, "room")

	snap, ok := rooms.Room(id)
	require.True(t, ok)
	snap.Host = "mallory"
	snap.Members[0].State = model.MemberInGame

	fresh, _ := rooms.Room(id)
	assert.Equal(t, "alice", fresh.Host)
	assert.Equal(t, model.MemberWaiting, fresh.Members[0].State)
}
