package png

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pngme/pkg/codec"
)

func chunkFromStrings(t *testing.T, typ, data string) *codec.Chunk {
	t.Helper()
	chunkType, err := codec.ParseChunkType(typ)
	require.NoError(t, err)
	return codec.NewChunk(chunkType, []byte(data))
}

func testingChunks(t *testing.T) []*codec.Chunk {
	return []*codec.Chunk{
		chunkFromStrings(t, "FrSt", "I am the first chunk"),
		chunkFromStrings(t, "miDl", "I am another chunk"),
		chunkFromStrings(t, "LASt", "I am the last chunk"),
	}
}

func testingPng(t *testing.T) *Png {
	return FromChunks(testingChunks(t))
}

func rawPng(t *testing.T) []byte {
	buf := append([]byte{}, Signature[:]...)
	for _, c := range testingChunks(t) {
		buf = append(buf, c.Bytes()...)
	}
	return buf
}

func assertSameChunks(t *testing.T, want, got []*codec.Chunk) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Type(), got[i].Type(), "chunk %d type", i)
		assert.Equal(t, want[i].Data(), got[i].Data(), "chunk %d data", i)
		assert.Equal(t, want[i].CRC(), got[i].CRC(), "chunk %d crc", i)
	}
}

func TestFromChunks(t *testing.T) {
	p := testingPng(t)
	assert.Equal(t, 3, p.Len())
}

func TestDecode_Valid(t *testing.T) {
	p, err := Decode(rawPng(t))
	require.NoError(t, err)
	assertSameChunks(t, testingChunks(t), p.Chunks())
}

func TestDecode_SignatureOnly(t *testing.T) {
	p, err := Decode(Signature[:])
	require.NoError(t, err)
	assert.Zero(t, p.Len())
	assert.Equal(t, Signature[:], p.Bytes())
}

func TestDecode_BadSignature(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short", data: Signature[:7]},
		{name: "wrong first byte", data: append([]byte{13}, rawPng(t)[1:]...)},
		{name: "wrong last byte", data: append(append([]byte{}, Signature[:7]...), 0x00)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.ErrorIs(t, err, codec.ErrBadSignature)
		})
	}
}

func TestDecode_InvalidChunk(t *testing.T) {
	raw := rawPng(t)
	// Corrupt the CRC of the last chunk.
	raw[len(raw)-1] ^= 0xFF

	_, err := Decode(raw)
	require.ErrorIs(t, err, codec.ErrChecksumMismatch)

	var de *codec.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, len(raw)-4, de.Offset)
}

func TestDecode_TrailingBytes(t *testing.T) {
	for n := 1; n < codec.Overhead; n++ {
		raw := append(rawPng(t), bytes.Repeat([]byte{0}, n)...)
		_, err := Decode(raw)
		assert.ErrorIs(t, err, codec.ErrTrailingBytes, "trailing %d bytes", n)
	}
}

func TestDecode_TruncatedLastChunk(t *testing.T) {
	raw := rawPng(t)
	_, err := Decode(raw[:len(raw)-1])
	assert.ErrorIs(t, err, codec.ErrTruncated)
}

func TestDecode_NoPartialResult(t *testing.T) {
	raw := rawPng(t)
	raw[len(Signature)+4] = '1' // first chunk type becomes non-alphabetic

	p, err := Decode(raw)
	assert.ErrorIs(t, err, codec.ErrInvalidTag)
	assert.Nil(t, p)
}

func TestPng_Bytes(t *testing.T) {
	p := testingPng(t)
	assert.Equal(t, rawPng(t), p.Bytes())
	assert.Equal(t, len(rawPng(t)), p.Size())
	assert.Equal(t, Signature, p.Header())
}

func TestPng_RoundTrip(t *testing.T) {
	original := testingPng(t)
	original.AppendChunk(chunkFromStrings(t, "FrSt", "duplicate type"))
	original.AppendChunk(codec.NewChunk(codec.MustParseChunkType("IEND"), nil))

	decoded, err := Decode(original.Bytes())
	require.NoError(t, err)
	assertSameChunks(t, original.Chunks(), decoded.Chunks())
	assert.Equal(t, original.Bytes(), decoded.Bytes())
}

func TestPng_AppendChunk(t *testing.T) {
	p := testingPng(t)
	p.AppendChunk(chunkFromStrings(t, "TeSt", "Message"))

	chunk, err := p.ChunkByType("TeSt")
	require.NoError(t, err)
	require.NotNil(t, chunk)
	assert.Equal(t, "TeSt", chunk.Type().String())

	msg, err := chunk.DataAsString()
	require.NoError(t, err)
	assert.Equal(t, "Message", msg)

	chunks := p.Chunks()
	assert.Same(t, chunk, chunks[len(chunks)-1])
}

func TestPng_ChunkByType(t *testing.T) {
	p := testingPng(t)

	chunk, err := p.ChunkByType("FrSt")
	require.NoError(t, err)
	require.NotNil(t, chunk)
	assert.Equal(t, []byte("I am the first chunk"), chunk.Data())

	missing, err := p.ChunkByType("NoPe")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = p.ChunkByType("toolong")
	assert.ErrorIs(t, err, codec.ErrInvalidLength)

	_, err = p.ChunkByType("F1St")
	assert.ErrorIs(t, err, codec.ErrInvalidTag)
}

func TestPng_FirstMatchWins(t *testing.T) {
	p := testingPng(t)
	p.AppendChunk(chunkFromStrings(t, "miDl", "second middle"))

	chunk, err := p.ChunkByType("miDl")
	require.NoError(t, err)
	assert.Equal(t, []byte("I am another chunk"), chunk.Data())

	removed, err := p.RemoveChunk("miDl")
	require.NoError(t, err)
	assert.Equal(t, []byte("I am another chunk"), removed.Data())

	chunk, err = p.ChunkByType("miDl")
	require.NoError(t, err)
	assert.Equal(t, []byte("second middle"), chunk.Data())
}

func TestPng_RemoveChunk(t *testing.T) {
	p := testingPng(t)
	p.AppendChunk(chunkFromStrings(t, "TeSt", "Message"))

	removed, err := p.RemoveChunk("TeSt")
	require.NoError(t, err)
	assert.Equal(t, "TeSt", removed.Type().String())

	chunk, err := p.ChunkByType("TeSt")
	require.NoError(t, err)
	assert.Nil(t, chunk)

	assertSameChunks(t, testingChunks(t), p.Chunks())
}

func TestPng_RemoveMiddlePreservesOrder(t *testing.T) {
	p := testingPng(t)
	before := p.Chunks()

	_, err := p.RemoveChunk("miDl")
	require.NoError(t, err)

	after := p.Chunks()
	require.Len(t, after, 2)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[2], after[1])
	// The earlier snapshot is unaffected by the removal.
	assert.Len(t, before, 3)
}

func TestPng_RemoveChunk_NotFound(t *testing.T) {
	p := testingPng(t)
	before := p.Bytes()

	_, err := p.RemoveChunk("NoPe")
	assert.ErrorIs(t, err, codec.ErrNotFound)
	assert.Equal(t, before, p.Bytes())
}

func TestPng_String(t *testing.T) {
	p := FromChunks([]*codec.Chunk{chunkFromStrings(t, "RuSt", "hi")})
	s := p.String()
	assert.Contains(t, s, "Png {")
	assert.Contains(t, s, "  Type: RuSt")
}
