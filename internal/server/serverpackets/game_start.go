package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// GameStart announces the match to one player, naming their opponent.
type GameStart struct {
	RoomID           uint32
	OpponentUsername string
	WordLength       uint32
	CurrentRound     uint8
}

// Encode builds the S2C_GameStart frame.
func (p *GameStart) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteUint32(p.RoomID)
	w.WriteString(p.OpponentUsername)
	w.WriteUint32(p.WordLength)
	w.WriteUint8(p.CurrentRound)
	return protocol.EncodeFrame(protocol.S2CGameStart, w.Bytes())
}
