package packet

import (
	"bytes"
	"math"
)

// Writer provides methods for writing packet payload data.
// Uses Big-Endian byte order for all multi-byte values.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a new payload writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	w := &Writer{}
	w.buf.Grow(capacity)
	return w
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(b uint8) {
	w.buf.WriteByte(b)
}

// WriteUint16 writes a uint16 (2 bytes, BE).
func (w *Writer) WriteUint16(val uint16) {
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val))
}

// WriteUint32 writes a uint32 (4 bytes, BE).
func (w *Writer) WriteUint32(val uint32) {
	w.buf.WriteByte(byte(val >> 24))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val))
}

// WriteBool writes a bool as a single byte (1/0).
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteString writes a u16 length prefix followed by the UTF-8 bytes.
// Strings longer than 65535 bytes are truncated at the limit.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	w.WriteUint16(uint16(len(s)))
	w.buf.WriteString(s)
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}
