package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// StartGame begins the match. Host only, both members ready.
type StartGame struct {
	Token  string
	RoomID uint32
}

// ParseStartGame parses a C2S_StartGame payload.
func ParseStartGame(data []byte) (*StartGame, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	return &StartGame{Token: token, RoomID: roomID}, nil
}
