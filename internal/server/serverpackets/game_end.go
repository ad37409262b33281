package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// GameEnd announces the final outcome. ResultCode is from the recipient's
// perspective: 0 resign, 1 won, 2 lost, 3 draw.
type GameEnd struct {
	MatchID    uint32
	ResultCode uint8
	Summary    string
}

// Encode builds the S2C_GameEnd frame.
func (p *GameEnd) Encode() []byte {
	w := packet.NewWriter(64)
	w.WriteUint32(p.MatchID)
	w.WriteUint8(p.ResultCode)
	w.WriteString(p.Summary)
	return protocol.EncodeFrame(protocol.S2CGameEnd, w.Bytes())
}
