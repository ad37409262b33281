package game

import (
	"log/slog"

	"wordduel/internal/model"
	"wordduel/internal/protocol"
)

// BeforePlayService drives everything between login and the first guess:
// the online list, invitations, readiness and the game-start handshake.
// It holds no state of its own; it composes the other services through
// their public APIs, never holding two locks at once.
type BeforePlayService struct {
	auth    *AuthService
	rooms   *RoomService
	matches *MatchService
}

// NewBeforePlayService wires the pre-game flows.
func NewBeforePlayService(auth *AuthService, rooms *RoomService, matches *MatchService) *BeforePlayService {
	return &BeforePlayService{auth: auth, rooms: rooms, matches: matches}
}

// OnlineList returns every logged-in user except the caller, filtered to
// users not currently in any room.
func (s *BeforePlayService) OnlineList(token string) (protocol.ResultCode, []string) {
	sess, ok := s.auth.Session(token)
	if !ok {
		return protocol.RCAuthFail, nil
	}

	var free []string
	for _, name := range s.auth.OnlineUsernames() {
		if name == sess.Username || s.rooms.IsUserInRoom(name) {
			continue
		}
		free = append(free, name)
	}
	return protocol.RCOK, free
}

// InviteOutcome describes an invite attempt: on success the target must
// receive an InviteReceived notification.
type InviteOutcome struct {
	Code       protocol.ResultCode
	Message    string
	From       string
	TargetConn model.ConnID
	RoomID     uint32
	RoomName   string
}

// SendInvite verifies the target is online and free and produces the
// notification for them.
func (s *BeforePlayService) SendInvite(token, target string, roomID uint32) InviteOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return InviteOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	room, ok := s.rooms.Room(roomID)
	if !ok {
		return InviteOutcome{Code: protocol.RCNotFound, Message: "no such room"}
	}
	if room.Member(sess.Username) == nil {
		return InviteOutcome{Code: protocol.RCFail, Message: "you are not in that room"}
	}
	if room.IsFull() {
		return InviteOutcome{Code: protocol.RCFail, Message: "room is full"}
	}

	targetConn, online := s.auth.ConnOf(target)
	if !online {
		return InviteOutcome{Code: protocol.RCNotFound, Message: "player is not online"}
	}
	if s.rooms.IsUserInRoom(target) {
		return InviteOutcome{Code: protocol.RCFail, Message: "player is already in a room"}
	}

	slog.Info("invite sent", "from", sess.Username, "to", target, "room", roomID)
	return InviteOutcome{
		Code:       protocol.RCOK,
		Message:    "invite sent",
		From:       sess.Username,
		TargetConn: targetConn,
		RoomID:     roomID,
		RoomName:   room.Name,
	}
}

// RespondOutcome describes the result of an invite response. On an
// accepted invite the responder has joined SenderRoom and the inviter must
// be notified; on a reject only the inviter is notified.
type RespondOutcome struct {
	Code     protocol.ResultCode
	Message  string
	Accepted bool
	Target   string // the responder
	From     string // the original inviter

	SenderConn model.ConnID
	RoomID     uint32
	RoomName   string
}

// RespondInvite joins the responder into the inviter's room on accept and
// notifies the inviter either way.
func (s *BeforePlayService) RespondInvite(token, from string, accept bool) RespondOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return RespondOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	senderConn, online := s.auth.ConnOf(from)
	if !online {
		return RespondOutcome{Code: protocol.RCNotFound, Message: "inviter is no longer online"}
	}

	out := RespondOutcome{
		Target:     sess.Username,
		From:       from,
		SenderConn: senderConn,
	}

	if !accept {
		out.Code = protocol.RCOK
		out.Message = "invite declined"
		return out
	}

	room, ok := s.rooms.RoomByUsername(from)
	if !ok {
		out.Code = protocol.RCNotFound
		out.Message = "inviter's room is gone"
		return out
	}

	code, msg, joined := s.rooms.Join(room.ID, sess.Username, sess.Conn)
	out.Code = code
	out.Message = msg
	if code == protocol.RCOK {
		out.Accepted = true
		out.RoomID = joined.ID
		out.RoomName = joined.Name
	}
	return out
}

// ReadyOutcome describes a readiness toggle: the host learns about it.
type ReadyOutcome struct {
	Code       protocol.ResultCode
	Message    string
	Username   string
	Ready      bool
	HostConn   model.ConnID
	NotifyHost bool
}

// SetReady toggles the caller's readiness in the room (lobby only).
func (s *BeforePlayService) SetReady(token string, roomID uint32, ready bool) ReadyOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return ReadyOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	room, ok := s.rooms.Room(roomID)
	if !ok {
		return ReadyOutcome{Code: protocol.RCNotFound, Message: "no such room"}
	}
	if room.State != model.RoomLobby {
		return ReadyOutcome{Code: protocol.RCFail, Message: "game already started"}
	}
	if room.Member(sess.Username) == nil {
		return ReadyOutcome{Code: protocol.RCFail, Message: "not a member of this room"}
	}

	state := model.MemberWaiting
	if ready {
		state = model.MemberReady
	}
	if !s.rooms.SetMemberState(roomID, sess.Username, state) {
		return ReadyOutcome{Code: protocol.RCFail, Message: "not a member of this room"}
	}

	out := ReadyOutcome{
		Code:     protocol.RCOK,
		Message:  "ready state updated",
		Username: sess.Username,
		Ready:    ready,
	}
	if host := room.Member(room.Host); host != nil && room.Host != sess.Username {
		out.HostConn = host.Conn
		out.NotifyHost = true
	}
	return out
}

// StartOutcome describes a started game: both players receive a GameStart
// with the recipient-specific opponent name.
type StartOutcome struct {
	Code       protocol.ResultCode
	Message    string
	RoomID     uint32
	WordLength uint32
	Round      uint8
	Players    [2]StartPlayer
}

// StartPlayer is one recipient of the GameStart notification.
type StartPlayer struct {
	Username string
	Conn     model.ConnID
	Opponent string
}

// StartGame is host-only and requires both members ready. It transitions
// the room to playing, marks the members in-game and seeds the match.
func (s *BeforePlayService) StartGame(token string, roomID uint32) StartOutcome {
	sess, ok := s.auth.Session(token)
	if !ok {
		return StartOutcome{Code: protocol.RCAuthFail, Message: "invalid session"}
	}

	room, ok := s.rooms.Room(roomID)
	if !ok {
		return StartOutcome{Code: protocol.RCNotFound, Message: "no such room"}
	}
	if !room.IsHost(sess.Username) {
		return StartOutcome{Code: protocol.RCFail, Message: "only the host can start"}
	}
	if room.State != model.RoomLobby {
		return StartOutcome{Code: protocol.RCAlready, Message: "game already started"}
	}
	if len(room.Members) != model.MaxRoomMembers {
		return StartOutcome{Code: protocol.RCFail, Message: "need two players to start"}
	}
	for _, m := range room.Members {
		if m.State != model.MemberReady {
			return StartOutcome{Code: protocol.RCFail, Message: "both players must be ready"}
		}
	}

	// Host first: the host opens round 1.
	var seats [2]string
	var conns [2]model.ConnID
	seats[0] = room.Host
	for _, m := range room.Members {
		if m.Username == room.Host {
			conns[0] = m.Conn
		} else {
			seats[1] = m.Username
			conns[1] = m.Conn
		}
	}

	match, err := s.matches.StartMatch(roomID, seats)
	if err != nil {
		slog.Error("starting match failed", "room", roomID, "error", err)
		return StartOutcome{Code: protocol.RCServerError, Message: "could not start match"}
	}

	s.rooms.SetRoomState(roomID, model.RoomPlaying)
	for _, name := range seats {
		s.rooms.SetMemberState(roomID, name, model.MemberInGame)
	}

	return StartOutcome{
		Code:       protocol.RCOK,
		Message:    "game started",
		RoomID:     roomID,
		WordLength: uint32(len(match.Word())),
		Round:      uint8(match.Round),
		Players: [2]StartPlayer{
			{Username: seats[0], Conn: conns[0], Opponent: seats[1]},
			{Username: seats[1], Conn: conns[1], Opponent: seats[0]},
		},
	}
}
