package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// PlayerLeftNotification tells the remaining member who left. IsNewHost is
// set when the recipient just inherited the room.
type PlayerLeftNotification struct {
	Username  string
	IsNewHost bool
	Message   string
}

// Encode builds the S2C_PlayerLeftNotification frame.
func (p *PlayerLeftNotification) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteString(p.Username)
	w.WriteBool(p.IsNewHost)
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CPlayerLeftNotification, w.Bytes())
}
