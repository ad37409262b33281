// Package clientpackets parses client-to-server payloads. One type per
// packet, each with a Parse function taking the raw payload (frame header
// already stripped).
package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// Register creates a new account.
type Register struct {
	Username string
	Password string
}

// ParseRegister parses a C2S_Register payload.
func ParseRegister(data []byte) (*Register, error) {
	r := packet.NewReader(data)
	username, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading username: %w", err)
	}
	password, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return &Register{Username: username, Password: password}, nil
}
