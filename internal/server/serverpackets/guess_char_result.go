package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// GuessCharResult reports a letter guess. Sent to the guesser with their
// own view and to the opponent with theirs; the pattern is shared.
type GuessCharResult struct {
	Correct           bool
	CurrentPattern    string
	AttemptsRemaining uint8
	PointsGained      uint32
	TotalScore        uint32
	CurrentRound      uint8
	YourTurn          bool
}

// Encode builds the S2C_GuessCharResult frame.
func (p *GuessCharResult) Encode() []byte {
	w := packet.NewWriter(64)
	w.WriteBool(p.Correct)
	w.WriteString(p.CurrentPattern)
	w.WriteUint8(p.AttemptsRemaining)
	w.WriteUint32(p.PointsGained)
	w.WriteUint32(p.TotalScore)
	w.WriteUint8(p.CurrentRound)
	w.WriteBool(p.YourTurn)
	return protocol.EncodeFrame(protocol.S2CGuessCharResult, w.Bytes())
}
