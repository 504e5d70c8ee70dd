package codec

import "fmt"

// ChunkType is the 4-byte type code of a chunk. The case of each byte
// carries one property bit: ancillary, private, reserved and safe-to-copy.
type ChunkType struct {
	bytes [4]byte
}

// NewChunkType validates b and returns it as a ChunkType.
func NewChunkType(b [4]byte) (ChunkType, error) {
	if !isAlphabetic(b) {
		return ChunkType{}, fmt.Errorf("chunk type %q: %w", b[:], ErrInvalidTag)
	}
	return ChunkType{bytes: b}, nil
}

// ParseChunkType builds a ChunkType from its textual form, e.g. "RuSt".
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, fmt.Errorf("chunk type %q is %d bytes: %w", s, len(s), ErrInvalidLength)
	}
	var b [4]byte
	copy(b[:], s)
	return NewChunkType(b)
}

// MustParseChunkType is like ParseChunkType but panics on error.
func MustParseChunkType(s string) ChunkType {
	t, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Bytes returns the raw type code.
func (t ChunkType) Bytes() [4]byte {
	return t.bytes
}

// IsValid rechecks the alphabet and requires the reserved bit to be valid.
func (t ChunkType) IsValid() bool {
	return isAlphabetic(t.bytes) && t.IsReservedBitValid()
}

// IsCritical reports whether decoders must understand the chunk.
func (t ChunkType) IsCritical() bool {
	return isUpper(t.bytes[0])
}

// IsPublic reports whether the type belongs to the registered public set.
func (t ChunkType) IsPublic() bool {
	return isUpper(t.bytes[1])
}

// IsReservedBitValid reports whether the reserved bit (byte 2) is uppercase.
func (t ChunkType) IsReservedBitValid() bool {
	return isUpper(t.bytes[2])
}

// IsSafeToCopy reports whether editors may copy the chunk unchanged when
// they modify critical chunks. A lowercase fourth byte marks it safe.
func (t ChunkType) IsSafeToCopy() bool {
	return isLower(t.bytes[3])
}

func (t ChunkType) String() string {
	return string(t.bytes[:])
}

func isAlphabetic(b [4]byte) bool {
	for _, c := range b {
		if !isUpper(c) && !isLower(c) {
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
