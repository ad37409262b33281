package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// PlayerReadyUpdate notifies the host of a readiness change.
type PlayerReadyUpdate struct {
	Username string
	Ready    bool
}

// Encode builds the S2C_PlayerReadyUpdate frame.
func (p *PlayerReadyUpdate) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteString(p.Username)
	w.WriteBool(p.Ready)
	return protocol.EncodeFrame(protocol.S2CPlayerReadyUpdate, w.Bytes())
}
