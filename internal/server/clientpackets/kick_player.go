package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// KickPlayer removes a guest from the host's room.
type KickPlayer struct {
	Token          string
	RoomID         uint32
	TargetUsername string
}

// ParseKickPlayer parses a C2S_KickPlayer payload.
func ParseKickPlayer(data []byte) (*KickPlayer, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	target, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading target username: %w", err)
	}
	return &KickPlayer{Token: token, RoomID: roomID, TargetUsername: target}, nil
}
