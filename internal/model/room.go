package model

// RoomState is the lifecycle state of a room.
type RoomState uint8

const (
	RoomLobby RoomState = iota
	RoomPlaying
)

// MemberState is the per-member readiness state inside a room.
type MemberState uint8

const (
	MemberWaiting MemberState = iota
	MemberReady
	MemberInGame
)

// RoomMember is one player gathered in a room.
type RoomMember struct {
	Username string
	Conn     ConnID
	State    MemberState
}

// Room is a pre-match gathering of up to two players. The host is always a
// current member (reassigned if the host leaves while a guest remains).
type Room struct {
	ID      uint32
	Name    string
	Host    string
	Members []*RoomMember
	State   RoomState
}

// MaxRoomMembers is the member cardinality cap.
const MaxRoomMembers = 2

// Member returns the member with the given username, or nil.
func (r *Room) Member(username string) *RoomMember {
	for _, m := range r.Members {
		if m.Username == username {
			return m
		}
	}
	return nil
}

// Opponent returns the member other than username, or nil if alone.
func (r *Room) Opponent(username string) *RoomMember {
	for _, m := range r.Members {
		if m.Username != username {
			return m
		}
	}
	return nil
}

// IsHost reports whether username is the room host.
func (r *Room) IsHost(username string) bool {
	return r.Host == username
}

// IsFull reports whether the room already holds the maximum member count.
func (r *Room) IsFull() bool {
	return len(r.Members) >= MaxRoomMembers
}

// RemoveMember removes the member with the given username.
// Returns false if no such member exists.
func (r *Room) RemoveMember(username string) bool {
	for i, m := range r.Members {
		if m.Username == username {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}
