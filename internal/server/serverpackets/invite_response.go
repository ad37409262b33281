package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// InviteResponse tells the inviter how the target answered.
type InviteResponse struct {
	ToUsername string
	Accepted   bool
	Message    string
}

// Encode builds the S2C_InviteResponse frame.
func (p *InviteResponse) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteString(p.ToUsername)
	w.WriteBool(p.Accepted)
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CInviteResponse, w.Bytes())
}
