package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RequestLeaderboard asks for the global ranking.
type RequestLeaderboard struct {
	Token string
}

// ParseRequestLeaderboard parses a C2S_RequestLeaderboard payload.
func ParseRequestLeaderboard(data []byte) (*RequestLeaderboard, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return &RequestLeaderboard{Token: token}, nil
}
