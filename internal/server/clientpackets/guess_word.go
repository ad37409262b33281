package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// GuessWord submits a whole-word guess.
type GuessWord struct {
	Token   string
	RoomID  uint32
	MatchID uint32
	Word    string
}

// ParseGuessWord parses a C2S_GuessWord payload.
func ParseGuessWord(data []byte) (*GuessWord, error) {
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
	word, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading guessed word: %w", err)
	}
	return &GuessWord{Token: token, RoomID: roomID, MatchID: matchID, Word: word}, nil
}
