package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// GuessChar submits one character guess.
type GuessChar struct {
	Token   string
	RoomID  uint32
	MatchID uint32
	Char    byte
}

// ParseGuessChar parses a C2S_GuessChar payload.
func ParseGuessChar(data []byte) (*GuessChar, error) {
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
	ch, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("reading guessed char: %w", err)
	}
	return &GuessChar{Token: token, RoomID: roomID, MatchID: matchID, Char: ch}, nil
}
