package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// SetReady toggles the caller's readiness in a lobby.
type SetReady struct {
	Token  string
	RoomID uint32
	Ready  bool
}

// ParseSetReady parses a C2S_SetReady payload.
func ParseSetReady(data []byte) (*SetReady, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	ready, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading ready flag: %w", err)
	}
	return &SetReady{Token: token, RoomID: roomID, Ready: ready}, nil
}
