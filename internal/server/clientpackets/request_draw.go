package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RequestDraw offers the opponent a draw.
type RequestDraw struct {
	Token   string
	RoomID  uint32
	MatchID uint32
}

// ParseRequestDraw parses a C2S_RequestDraw payload.
func ParseRequestDraw(data []byte) (*RequestDraw, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	matchID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading match id: %w", err)
	}
	return &RequestDraw{Token: token, RoomID: roomID, MatchID: matchID}, nil
}
