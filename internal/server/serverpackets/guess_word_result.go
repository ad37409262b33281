package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// GuessWordResult reports a full-word guess. On a round transition
// NextPattern carries the fresh word's pattern.
type GuessWordResult struct {
	Correct           bool
	Message           string
	AttemptsRemaining uint8
	PointsGained      uint32
	TotalScore        uint32
	CurrentRound      uint8
	RoundComplete     bool
	NextPattern       string
	YourTurn          bool
}

// Encode builds the S2C_GuessWordResult frame.
func (p *GuessWordResult) Encode() []byte {
	w := packet.NewWriter(96)
	w.WriteBool(p.Correct)
	w.WriteString(p.Message)
	w.WriteUint8(p.AttemptsRemaining)
	w.WriteUint32(p.PointsGained)
	w.WriteUint32(p.TotalScore)
	w.WriteUint8(p.CurrentRound)
	w.WriteBool(p.RoundComplete)
	w.WriteString(p.NextPattern)
	w.WriteBool(p.YourTurn)
	return protocol.EncodeFrame(protocol.S2CGuessWordResult, w.Bytes())
}
