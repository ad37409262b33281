package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// LeaveRoomAck acknowledges a leave to the leaver.
type LeaveRoomAck struct {
	Code    protocol.ResultCode
	Message string
}

// Encode builds the S2C_LeaveRoomAck frame.
func (p *LeaveRoomAck) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	return protocol.EncodeFrame(protocol.S2CLeaveRoomAck, w.Bytes())
}
