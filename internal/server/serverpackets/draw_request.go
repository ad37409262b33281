package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// DrawRequest forwards a draw offer to the opponent.
type DrawRequest struct {
	FromUsername string
	MatchID      uint32
}

// Encode builds the S2C_DrawRequest frame.
func (p *DrawRequest) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteString(p.FromUsername)
	w.WriteUint32(p.MatchID)
	return protocol.EncodeFrame(protocol.S2CDrawRequest, w.Bytes())
}
