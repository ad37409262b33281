package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// Login authenticates an existing account.
type Login struct {
	Username string
	Password string
}

// ParseLogin parses a C2S_Login payload.
func ParseLogin(data []byte) (*Login, error) {
	r := packet.NewReader(data)
	username, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading username: %w", err)
	}
	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return &Login{Username: username, Password: password}, nil
}
