package packet

import (
	"encoding/binary"
	"fmt"
)

// Reader provides methods for reading packet payload data.
// Uses Big-Endian byte order for all multi-byte values.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new payload reader.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadUint8: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads a uint16 (2 bytes, BE).
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadUint32 reads a uint32 (4 bytes, BE).
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32: not enough data (pos=%d, len=%d)", r.pos, len(r.data))
	}
	val := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadBool reads a single byte with 0/nonzero semantics.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, fmt.Errorf("ReadBool: %w", err)
	}
	return b != 0, nil
}

// ReadString reads a u16 length prefix followed by that many UTF-8 bytes.
// No terminator.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", fmt.Errorf("ReadString: reading length: %w", err)
	}
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("ReadString: not enough data (pos=%d, need=%d, len=%d)", r.pos, n, len(r.data))
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
