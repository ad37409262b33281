package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// Error reports a malformed or unprocessable request. ForType names the
// offending request type, zero when unknown.
type Error struct {
	ForType uint16
	Message string
}

// Encode builds the S2C_Error frame.
func (p *Error) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteUint16(p.ForType)
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CError, w.Bytes())
}
