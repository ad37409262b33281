package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// Logout ends the caller's session.
type Logout struct {
	Token string
}

// ParseLogout parses a C2S_Logout payload.
func ParseLogout(data []byte) (*Logout, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	return &Logout{Token: token}, nil
}
