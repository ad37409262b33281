package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// Ack is the generic reply for requests without a dedicated result
// packet, such as a declined draw offer or an end-game confirmation.
type Ack struct {
	AckForType uint16
	Code       protocol.ResultCode
	Message    string
}

// Encode builds the S2C_Ack frame.
func (p *Ack) Encode() []byte {
	w := packet.NewWriter(48)
	w.WriteUint16(p.AckForType)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CAck, w.Bytes())
}
