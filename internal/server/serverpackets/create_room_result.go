package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// CreateRoomResult acknowledges room creation. Also sent to an invitee
// whose accepted invite joined them into the inviter's room.
type CreateRoomResult struct {
	Code    protocol.ResultCode
	Message string
	RoomID  uint32
}

// Encode builds the S2C_CreateRoomResult frame.
func (p *CreateRoomResult) Encode() []byte {
	w := packet.NewWriter(32)
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	w.WriteUint32(p.RoomID)
	return protocol.EncodeFrame(protocol.S2CCreateRoomResult, w.Bytes())
}
