package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// CreateRoom opens a new room with the caller as host.
type CreateRoom struct {
	Token    string
	RoomName string
}

// ParseCreateRoom parses a C2S_CreateRoom payload.
func ParseCreateRoom(data []byte) (*CreateRoom, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	name, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading room name: %w", err)
	}
	return &CreateRoom{Token: token, RoomName: name}, nil
}
