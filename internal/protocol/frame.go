package protocol

import (
	"encoding/binary"
	"fmt"
)

// Wire format: version(u8) | type(u16 BE) | payload_len(u32 BE) | payload.
const (
	Version    = 1
	HeaderSize = 7

	// MaxPayload guards against corrupt length fields. Anything larger is a
	// framing fault and the connection must be closed.
	MaxPayload = 16 << 20
)

// Frame is one decoded packet: a type code plus its raw payload bytes.
type Frame struct {
	Type    uint16
	Payload []byte
}

// DecodeStatus reports the outcome of TryDecodeOne.
type DecodeStatus int

const (
	// DecodeNeedMore means the buffer does not yet hold a full frame.
	DecodeNeedMore DecodeStatus = iota
	// DecodeBad means the header is unusable (oversize payload). The
	// connection should be closed.
	DecodeBad
	// DecodeSkip means the header carried an unknown protocol version.
	// The header bytes are consumed and decoding continues at the next byte.
	DecodeSkip
	// DecodeOK means a complete frame was decoded.
	DecodeOK
)

// TryDecodeOne attempts to decode a single frame from buf. It never mutates
// buf; the payload of a returned frame aliases buf, so the caller must copy
// it before the buffer is compacted. consumed is the number of bytes the
// caller should advance its cursor by (0 for DecodeNeedMore).
func TryDecodeOne(buf []byte) (frame Frame, consumed int, status DecodeStatus) {
	if len(buf) < HeaderSize {
		return Frame{}, 0, DecodeNeedMore
	}

	ver := buf[0]
	typ := binary.BigEndian.Uint16(buf[1:3])
	payloadLen := binary.BigEndian.Uint32(buf[3:7])

	if payloadLen > MaxPayload {
		return Frame{}, 0, DecodeBad
	}

	if ver != Version {
		// Tolerate transient corruption: skip the header, keep the connection.
		return Frame{}, HeaderSize, DecodeSkip
	}

	total := HeaderSize + int(payloadLen)
	if len(buf) < total {
		return Frame{}, 0, DecodeNeedMore
	}

	return Frame{Type: typ, Payload: buf[HeaderSize:total]}, total, DecodeOK
}

// EncodeFrame builds a complete wire frame for the given type and payload.
func EncodeFrame(typ uint16, payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	buf[0] = Version
	binary.BigEndian.PutUint16(buf[1:3], typ)
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	return buf
}

// HasCompleteFrame reports whether buf holds at least one full frame
// (header plus the header's declared payload length).
func HasCompleteFrame(buf []byte) bool {
	if len(buf) < HeaderSize {
		return false
	}
	payloadLen := binary.BigEndian.Uint32(buf[3:7])
	if payloadLen > MaxPayload {
		// Bad header still counts: the caller must look at it to fail.
		return true
	}
	return len(buf) >= HeaderSize+int(payloadLen)
}

func (s DecodeStatus) String() string {
	switch s {
	case DecodeNeedMore:
		return "NeedMore"
	case DecodeBad:
		return "Bad"
	case DecodeSkip:
		return "Skip"
	case DecodeOK:
		return "OK"
	default:
		return fmt.Sprintf("DecodeStatus(%d)", int(s))
	}
}
