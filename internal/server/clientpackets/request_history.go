package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RequestHistory asks for the caller's match history.
type RequestHistory struct {
	Token string
}

// ParseRequestHistory parses a C2S_RequestHistory payload.
func ParseRequestHistory(data []byte) (*RequestHistory, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return &RequestHistory{Token: token}, nil
}
