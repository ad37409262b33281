package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RequestOnlineList asks for the invitable players.
type RequestOnlineList struct {
	Token string
}

// ParseRequestOnlineList parses a C2S_RequestOnlineList payload.
func ParseRequestOnlineList(data []byte) (*RequestOnlineList, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return &RequestOnlineList{Token: token}, nil
}
