package game

import (
	"log/slog"
	"sync"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
)

// RoomService owns the room registry. Room ids are monotonic from 1 and
// never reused, so a stale id can never alias a newer room.
type RoomService struct {
	mu     sync.Mutex
	rooms  map[uint32]*model.Room
	byUser map[string]uint32 // username -> room id
	nextID uint32
}

// NewRoomService creates an empty room registry.
func NewRoomService() *RoomService {
	return &RoomService{
		rooms:  make(map[uint32]*model.Room),
		byUser: make(map[string]uint32),
		nextID: 1,
	}
}

// Create installs a new room with the caller as host and sole member.
func (s *RoomService) Create(username string, conn model.ConnID, name string) (protocol.ResultCode, string, uint32) {
	if name == "" {
		return protocol.RCInvalid, "room name must not be empty", 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inRoom := s.byUser[username]; inRoom {
		return protocol.RCAlready, "already in a room", 0
	}

	id := s.nextID
	s.nextID++
	room := &model.Room{
		ID:   id,
		Name: name,
		Host: username,
		Members: []*model.RoomMember{
			{Username: username, Conn: conn, State: model.MemberWaiting},
		},
		State: model.RoomLobby,
	}
	s.rooms[id] = room
	s.byUser[username] = id

	slog.Info("room created", "room", id, "name", name, "host", username)
	return protocol.RCOK, "room created", id
}

// LeaveOutcome describes what happened when a member left a room.
type LeaveOutcome struct {
	Code        protocol.ResultCode
	Message     string
	RoomDeleted bool

	// Set when the remaining member must be notified. IsNewHost is true
	// when the leaver was the host and NotifyConn now owns the room.
	NotifyConn model.ConnID
	LeftUser   string
	IsNewHost  bool
}

// Leave removes username from the room. A departing host promotes the
// first remaining member; an empty room is deleted.
func (s *RoomService) Leave(username string, roomID uint32) LeaveOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return LeaveOutcome{Code: protocol.RCNotFound, Message: "no such room"}
	}
	if room.Member(username) == nil {
		return LeaveOutcome{Code: protocol.RCFail, Message: "not a member of this room"}
	}

	wasHost := room.IsHost(username)
	room.RemoveMember(username)
	delete(s.byUser, username)

	if len(room.Members) == 0 {
		delete(s.rooms, roomID)
		slog.Info("room deleted", "room", roomID)
		return LeaveOutcome{Code: protocol.RCOK, Message: "left room", RoomDeleted: true}
	}

	out := LeaveOutcome{
		Code:       protocol.RCOK,
		Message:    "left room",
		LeftUser:   username,
		NotifyConn: room.Members[0].Conn,
	}
	if wasHost {
		room.Host = room.Members[0].Username
		out.IsNewHost = true
		slog.Info("host left, promoted remaining member",
			"room", roomID, "old_host", username, "new_host", room.Host)
	}
	return out
}

// Join adds username as the second member. Allowed only while the room is
// in the lobby with exactly one member.
func (s *RoomService) Join(roomID uint32, username string, conn model.ConnID) (protocol.ResultCode, string, *model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return protocol.RCNotFound, "no such room", nil
	}
	if _, inRoom := s.byUser[username]; inRoom {
		return protocol.RCAlready, "already in a room", nil
	}
	if room.State != model.RoomLobby {
		return protocol.RCFail, "room is already playing", nil
	}
	if room.IsFull() {
		return protocol.RCFail, "room is full", nil
	}

	room.Members = append(room.Members, &model.RoomMember{
		Username: username, Conn: conn, State: model.MemberWaiting,
	})
	s.byUser[username] = roomID
	slog.Info("player joined room", "room", roomID, "user", username)
	return protocol.RCOK, "joined", s.snapshotLocked(room)
}

// KickOutcome describes a kick attempt.
type KickOutcome struct {
	Code       protocol.ResultCode
	Message    string
	TargetConn model.ConnID
	Target     string
}

// Kick removes target from the room. Host only, lobby only.
func (s *RoomService) Kick(roomID uint32, host, target string) KickOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return KickOutcome{Code: protocol.RCNotFound, Message: "no such room"}
	}
	if !room.IsHost(host) {
		return KickOutcome{Code: protocol.RCFail, Message: "only the host can kick"}
	}
	if room.State != model.RoomLobby {
		return KickOutcome{Code: protocol.RCFail, Message: "cannot kick during a game"}
	}
	member := room.Member(target)
	if member == nil || target == host {
		return KickOutcome{Code: protocol.RCNotFound, Message: "no such member"}
	}

	conn := member.Conn
	room.RemoveMember(target)
	delete(s.byUser, target)
	slog.Info("player kicked", "room", roomID, "host", host, "target", target)
	return KickOutcome{Code: protocol.RCOK, Message: "kicked", TargetConn: conn, Target: target}
}

// Room returns a snapshot of the room with the given id.
func (s *RoomService) Room(id uint32) (*model.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return s.snapshotLocked(room), true
}

// RoomByUsername returns a snapshot of the room containing username.
func (s *RoomService) RoomByUsername(username string) (*model.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byUser[username]
	if !ok {
		return nil, false
	}
	return s.snapshotLocked(s.rooms[id]), true
}

// IsUserInRoom reports whether username is a member of any live room.
func (s *RoomService) IsUserInRoom(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byUser[username]
	return ok
}

// SetMemberState updates one member's readiness state.
func (s *RoomService) SetMemberState(roomID uint32, username string, state model.MemberState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	member := room.Member(username)
	if member == nil {
		return false
	}
	member.State = state
	return true
}

// SetRoomState transitions the room lifecycle state.
func (s *RoomService) SetRoomState(roomID uint32, state model.RoomState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	room.State = state
	return true
}

// Release destroys the room after the match engine is done with it and
// returns the member connections for final notifications.
func (s *RoomService) Release(roomID uint32) []model.ConnID {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	conns := make([]model.ConnID, 0, len(room.Members))
	for _, m := range room.Members {
		conns = append(conns, m.Conn)
		delete(s.byUser, m.Username)
	}
	delete(s.rooms, roomID)
	slog.Info("room released", "room", roomID)
	return conns
}

// snapshotLocked copies a room so callers can read it without the lock.
func (s *RoomService) snapshotLocked(room *model.Room) *model.Room {
	cp := *room
	cp.Members = make([]*model.RoomMember, len(room.Members))
	for i, m := range room.Members {
		mc := *m
		cp.Members[i] = &mc
	}
	return &cp
}
