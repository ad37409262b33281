package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// LoginResult carries the fresh session token and the cached stats.
// Wins and points are u32 on the wire, uniformly with every other packet.
type LoginResult struct {
	Code         protocol.ResultCode
	Message      string
	SessionToken string
	Wins         uint32
	TotalPoints  uint32
}

// Encode builds the S2C_LoginResult frame.
func (p *LoginResult) Encode() []byte {
	w := packet.NewWriter(64)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	w.WriteString(p.SessionToken)
	w.WriteUint32(p.Wins)
	w.WriteUint32(p.TotalPoints)
	return protocol.EncodeFrame(protocol.S2CLoginResult, w.Bytes())
}
