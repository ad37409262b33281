package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// SendInvite invites a free online player into the caller's room.
type SendInvite struct {
	Token          string
	TargetUsername string
	RoomID         uint32
}

// ParseSendInvite parses a C2S_SendInvite payload.
func ParseSendInvite(data []byte) (*SendInvite, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	target, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading target username: %w", err)
	}
	roomID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}
	return &SendInvite{Token: token, TargetUsername: target, RoomID: roomID}, nil
}
