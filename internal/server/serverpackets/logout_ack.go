package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// LogoutAck acknowledges a logout.
type LogoutAck struct {
	Code    protocol.ResultCode
	Message string
}

// Encode builds the S2C_LogoutAck frame.
func (p *LogoutAck) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CLogoutAck, w.Bytes())
}
