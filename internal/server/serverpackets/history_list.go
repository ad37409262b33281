package serverpackets

import (
	"wordduel/internal/model"
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// HistoryList carries the caller's past matches, newest first.
type HistoryList struct {
	Code    protocol.ResultCode
	Message string
	Records []model.HistoryRecord
}

// Encode builds the S2C_HistoryList frame. Timestamps are written as
// unix seconds.
func (p *HistoryList) Encode() []byte {
	w := packet.NewWriter(32 * (len(p.Records) + 1))
	w.WriteUint8(uint8(p.Code))
	w.WriteString(p.Message)
	w.WriteUint16(uint16(len(p.Records)))
	for _, rec := range p.Records {
		w.WriteUint32(uint32(rec.When.Unix()))
		w.WriteString(rec.Opponent)
		w.WriteString(rec.Result)
		for _, score := range rec.RoundScores {
			w.WriteUint32(score)
		}
	}
	return protocol.EncodeFrame(protocol.S2CHistoryList, w.Bytes())
}
