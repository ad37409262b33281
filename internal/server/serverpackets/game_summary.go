package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// GameSummary is the full-match scoreboard, both seats side by side.
type GameSummary struct {
	Code    protocol.ResultCode
	Message string
	MatchID uint32
	Players [2]string
	Rounds  [2][3]uint32
	Totals  [2]uint32
	Winner  string
}

// Encode builds the S2C_GameSummary frame.
func (p *GameSummary) Encode() []byte {
	w := packet.NewWriter(128)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	w.WriteUint32(p.MatchID)
	for i := 0; i < 2; i++ {
		w.WriteString(p.Players[i])
		for _, score := range p.Rounds[i] {
			w.WriteUint32(score)
		}
		w.WriteUint32(p.Totals[i])
	}
	w.WriteString(p.Winner)
	return protocol.EncodeFrame(protocol.S2CGameSummary, w.Bytes())
}
