package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// InviteReceived notifies the target of a pending invitation.
type InviteReceived struct {
	FromUsername string
	RoomID       uint32
	RoomName     string
}

// Encode builds the S2C_InviteReceived frame.
func (p *InviteReceived) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteString(p.FromUsername)
	w.WriteUint32(p.RoomID)
	w.WriteString(p.RoomName)
	return protocol.EncodeFrame(protocol.S2CInviteReceived, w.Bytes())
}
