package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// KickResult goes to both the host and the kicked player.
type KickResult struct {
	Code           protocol.ResultCode
	Message        string
	TargetUsername string
}

// Encode builds the S2C_KickResult frame.
func (p *KickResult) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	w.WriteString(p.TargetUsername)
	return protocol.EncodeFrame(protocol.S2CKickResult, w.Bytes())
}
