package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// EndGame finalizes the match: resignation, declared win or loss, or an
// accepted draw.
type EndGame struct {
	Token      string
	RoomID     uint32
	MatchID    uint32
	ResultCode uint8
	Message    string
}

// ParseEndGame parses a C2S_EndGame payload.
func ParseEndGame(data []byte) (*EndGame, error) {
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
	resultCode, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading result code: %w", err)
	}
	msg, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}
	return &EndGame{
		Token:      token,
		RoomID:     roomID,
		MatchID:    matchID,
		ResultCode: resultCode,
		Message:    msg,
	}, nil
}
