package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(64)
	w.WriteUint8(0x7F)
	w.WriteUint16(0xBEEF)
	w.WriteUint32(0xDEADBEEF)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteString("hello")
	w.WriteString("")

	r := NewReader(w.Bytes())

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.EqualValues(t, 0x7F, u8)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, u16)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.EqualValues(t, 0xDEADBEEF, u32)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)
	b, err = r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Empty(t, s)

	assert.Zero(t, r.Remaining())
}

func TestReaderShortData(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, err := r.ReadUint16()
	assert.Error(t, err)

	r = NewReader(nil)
	_, err = r.ReadUint8()
	assert.Error(t, err)
	_, err = r.ReadUint32()
	assert.Error(t, err)
	_, err = r.ReadString()
	assert.Error(t, err)
}

func TestReadStringTruncatedBody(t *testing.T) {
	// Length prefix claims 10 bytes, only 3 present.
	r := NewReader([]byte{0x00, 0x0A, 'a', 'b', 'c'})
	_, err := r.ReadString()
	assert.Error(t, err)
}

func TestWriteStringCapsLength(t *testing.T) {
	long := make([]byte, 70000)
	for i := range long {
		long[i] = 'x'
	}
	w := NewWriter(0)
	w.WriteString(string(long))

	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Len(t, s, 65535)
}

func TestUTF8StringSurvives(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("héllo wörld")
	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "héllo wörld", s)
}
