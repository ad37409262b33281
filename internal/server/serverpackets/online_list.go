package serverpackets

import (
	"wordduel/internal/protocol"
	"wordduel/internal/protocol/packet"
)

// OnlineList carries the invitable players.
type OnlineList struct {
	Usernames []string
}

// Encode builds the S2C_OnlineList frame.
func (p *OnlineList) Encode() []byte {
	w := packet.NewWriter(16 * (len(p.Usernames) + 1))
	w.WriteUint16(uint16(len(p.Usernames)))
	for _, name := range p.Usernames {
		w.WriteString(name)
	}
	return protocol.EncodeFrame(protocol.S2COnlineList, w.Bytes())
}
