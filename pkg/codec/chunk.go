package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

const (
	lengthSize = 4
	typeSize   = 4
	crcSize    = 4

	// Overhead is the number of framing bytes around a chunk's data:
	// [Length(4)][Type(4)][Data][CRC(4)]
	Overhead = lengthSize + typeSize + crcSize
)

// Chunk is a single length-prefixed, CRC-protected record.
type Chunk struct {
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// NewChunk creates a chunk of type t carrying a copy of data.
func NewChunk(t ChunkType, data []byte) *Chunk {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Chunk{
		chunkType: t,
		data:      owned,
		crc:       Checksum(t, owned),
	}
}

// DecodeChunk reads one chunk from the start of buf.
// Format: [Length(4)][Type(4)][Data(Length)][CRC(4)], integers big-endian.
// Bytes after the chunk are ignored; Size reports how many were consumed.
func DecodeChunk(buf []byte) (*Chunk, error) {
	if len(buf) < lengthSize {
		return nil, truncated("length", 0, lengthSize, len(buf))
	}
	length := binary.BigEndian.Uint32(buf[0:lengthSize])

	if len(buf) < lengthSize+typeSize {
		return nil, truncated("type", lengthSize, typeSize, len(buf)-lengthSize)
	}
	var raw [4]byte
	copy(raw[:], buf[lengthSize:lengthSize+typeSize])
	if !isAlphabetic(raw) {
		return nil, &DecodeError{Kind: ErrInvalidTag, Field: "type", Offset: lengthSize}
	}
	chunkType := ChunkType{bytes: raw}

	dataStart := lengthSize + typeSize
	remaining := uint64(len(buf) - dataStart)
	if remaining < uint64(length) {
		return nil, truncated("data", dataStart, uint64(length), int(remaining))
	}
	dataEnd := dataStart + int(length)

	if len(buf)-dataEnd < crcSize {
		return nil, truncated("crc", dataEnd, crcSize, len(buf)-dataEnd)
	}
	stored := binary.BigEndian.Uint32(buf[dataEnd : dataEnd+crcSize])

	data := make([]byte, length)
	copy(data, buf[dataStart:dataEnd])

	if computed := Checksum(chunkType, data); computed != stored {
		return nil, &DecodeError{
			Kind:     ErrChecksumMismatch,
			Field:    "crc",
			Offset:   dataEnd,
			Expected: uint64(computed),
			Actual:   uint64(stored),
		}
	}

	return &Chunk{chunkType: chunkType, data: data, crc: stored}, nil
}

// Checksum computes the CRC-32 (ISO-HDLC, as used by zlib) of the type code
// followed by data.
func Checksum(t ChunkType, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(t.bytes[:])
	crc.Write(data)
	return crc.Sum32()
}

// Length returns the number of data bytes.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.data))
}

// Type returns the chunk's type code.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the chunk payload. The slice is owned by the chunk and must
// not be modified.
func (c *Chunk) Data() []byte {
	return c.data
}

// CRC returns the stored checksum.
func (c *Chunk) CRC() uint32 {
	return c.crc
}

// Size returns the encoded size of the chunk including framing.
func (c *Chunk) Size() int {
	return Overhead + len(c.data)
}

// DataAsString returns the payload as text.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("chunk %s: %w", c.chunkType, ErrNotUTF8)
	}
	return string(c.data), nil
}

// Bytes serializes the chunk.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, c.Size())
	c.put(buf)
	return buf
}

// AppendTo appends the serialized chunk to dst and returns the extended slice.
func (c *Chunk) AppendTo(dst []byte) []byte {
	n := len(dst)
	if cap(dst)-n < c.Size() {
		grown := make([]byte, n, n+c.Size())
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:n+c.Size()]
	c.put(dst[n:])
	return dst
}

func (c *Chunk) put(buf []byte) {
	binary.BigEndian.PutUint32(buf[0:], c.Length())
	copy(buf[lengthSize:], c.chunkType.bytes[:])
	copy(buf[lengthSize+typeSize:], c.data)
	binary.BigEndian.PutUint32(buf[lengthSize+typeSize+len(c.data):], c.crc)
}

func (c *Chunk) String() string {
	return fmt.Sprintf("Chunk {\n  Length: %d\n  Type: %s\n  Data: %d bytes\n  Crc: %d\n}",
		c.Length(), c.chunkType, len(c.data), c.crc)
}

func truncated(field string, offset int, need uint64, have int) error {
	return &DecodeError{
		Kind:     ErrTruncated,
		Field:    field,
		Offset:   offset,
		Expected: need,
		Actual:   uint64(have),
	}
}
