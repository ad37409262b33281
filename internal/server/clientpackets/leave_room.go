package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// LeaveRoom removes the caller from a room.
type LeaveRoom struct {
	Token  string
	RoomID uint32
}

// ParseLeaveRoom parses a C2S_LeaveRoom payload.
func ParseLeaveRoom(data []byte) (*LeaveRoom, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	return &LeaveRoom{Token: token, RoomID: roomID}, nil
}
