package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RequestSummary asks for the match scoreboard; valid on ended matches too.
type RequestSummary struct {
	Token   string
	MatchID uint32
}

// ParseRequestSummary parses a C2S_RequestSummary payload.
func ParseRequestSummary(data []byte) (*RequestSummary, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	matchID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading match id: %w", err)
	}
	return &RequestSummary{Token: token, MatchID: matchID}, nil
}
