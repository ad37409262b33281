package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	buf := EncodeFrame(0x0101, payload)
	require.Len(t, buf, HeaderSize+4)
	assert.EqualValues(t, Version, buf[0])

	frame, consumed, status := TryDecodeOne(buf)
	require.Equal(t, DecodeOK, status)
	assert.Equal(t, len(buf), consumed)
	assert.EqualValues(t, 0x0101, frame.Type)
	assert.Equal(t, payload, frame.Payload)
}

func TestDecodeEmptyPayload(t *testing.T) {
	buf := EncodeFrame(0x0105, nil)
	frame, consumed, status := TryDecodeOne(buf)
	require.Equal(t, DecodeOK, status)
	assert.Equal(t, HeaderSize, consumed)
	assert.Empty(t, frame.Payload)
}

func TestDecodeNeedMore(t *testing.T) {
	buf := EncodeFrame(0x0101, []byte("hello"))

	// Every strict prefix of the frame is incomplete.
	for i := 0; i < len(buf); i++ {
		_, consumed, status := TryDecodeOne(buf[:i])
		assert.Equal(t, DecodeNeedMore, status, "prefix of %d bytes", i)
		assert.Zero(t, consumed)
	}
}

func TestDecodeTwoFramesBackToBack(t *testing.T) {
	buf := append(EncodeFrame(0x0101, []byte("one")), EncodeFrame(0x0103, []byte("two"))...)

	frame, consumed, status := TryDecodeOne(buf)
	require.Equal(t, DecodeOK, status)
	assert.EqualValues(t, 0x0101, frame.Type)

	frame, _, status = TryDecodeOne(buf[consumed:])
	require.Equal(t, DecodeOK, status)
	assert.EqualValues(t, 0x0103, frame.Type)
	assert.Equal(t, []byte("two"), frame.Payload)
}

func TestDecodeSkipsUnknownVersion(t *testing.T) {
	bad := EncodeFrame(0x0101, []byte("junk"))
	bad[0] = 9

	_, consumed, status := TryDecodeOne(bad)
	assert.Equal(t, DecodeSkip, status)
	// Only the header is consumed; resync continues behind it.
	assert.Equal(t, HeaderSize, consumed)
}

func TestDecodeRejectsOversizePayload(t *testing.T) {
	var header [HeaderSize]byte
	header[0] = Version
	binary.BigEndian.PutUint16(header[1:3], 0x0101)
	binary.BigEndian.PutUint32(header[3:7], MaxPayload+1)

	_, consumed, status := TryDecodeOne(header[:])
	assert.Equal(t, DecodeBad, status)
	assert.Zero(t, consumed)
}

func TestHasCompleteFrame(t *testing.T) {
	buf := EncodeFrame(0x0101, []byte("abc"))
	assert.False(t, HasCompleteFrame(buf[:HeaderSize-1]))
	assert.False(t, HasCompleteFrame(buf[:len(buf)-1]))
	assert.True(t, HasCompleteFrame(buf))

	// An oversize header must surface to the caller, so it counts.
	binary.BigEndian.PutUint32(buf[3:7], MaxPayload+1)
	assert.True(t, HasCompleteFrame(buf[:HeaderSize]))
}
