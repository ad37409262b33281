// Package serverpackets builds server-to-client frames. One type per
// packet; Encode returns the complete wire frame, header included.
package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// RegisterResult acknowledges a registration attempt.
type RegisterResult struct {
	Code    protocol.ResultCode
	Message string
}

// Encode builds the S2C_RegisterResult frame.
func (p *RegisterResult) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CRegisterResult, w.Bytes())
}
