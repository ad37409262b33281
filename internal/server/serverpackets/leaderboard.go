package serverpackets

import (
	"wordduel/internal/game"
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// Leaderboard carries the ranked standings.
type Leaderboard struct {
	Code    protocol.ResultCode
	Entries []game.LeaderboardEntry
}

// Encode builds the S2C_Leaderboard frame.
func (p *Leaderboard) Encode() []byte {
	w := packet.NewWriter(24 * (len(p.Entries) + 1))
	w.WriteUint8(uint8(p.Code))
	w.WriteUint16(uint16(len(p.Entries)))
	for _, e := range p.Entries {
		w.WriteUint16(e.Rank)
		w.WriteString(e.Username)
		w.WriteUint32(e.Wins)
		w.WriteUint32(e.TotalPoints)
	}
	return protocol.EncodeFrame(protocol.S2CLeaderboard, w.Bytes())
}
