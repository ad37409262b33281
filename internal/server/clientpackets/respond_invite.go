package clientpackets

import (
	"fmt"

	"wordduel/internal/protocol/packet"
)

// RespondInvite accepts or rejects a pending invite.
type RespondInvite struct {
	Token        string
	FromUsername string
	Accept       bool
}

// ParseRespondInvite parses a C2S_RespondInvite payload.
func ParseRespondInvite(data []byte) (*RespondInvite, error) {
	r := packet.NewReader(data)
	token, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	from, err := r.ReadString()
	if err != nil {
		return nil, fmt.Errorf("reading inviter username: %w", err)
	}
	accept, err := r.ReadBool()
	if err != nil {
		return nil, fmt.Errorf("reading accept flag: %w", err)
	}
	return &RespondInvite{Token: token, FromUsername: from, Accept: accept}, nil
}
