// Package codec provides chunk serialization and deserialization for pngme.
//
// The codec package implements the binary chunk format used by PNG files:
// a typed, length-prefixed record with integrity checking. It is the
// foundation for the container codec in pkg/png.
//
// # Chunk Format
//
// Chunks are serialized in a binary format with the following structure:
//
//	[Length(4)][Type(4)][Data(Length)][CRC32(4)]
//
// Fields:
//   - Length: 32-bit unsigned integer, number of data bytes (big-endian)
//   - Type: 4 ASCII letters identifying the chunk
//   - Data: Length bytes of opaque payload, possibly empty
//   - CRC32: checksum of Type and Data (big-endian)
//
// The total chunk size is: 12 bytes (framing) + Length
//
// # Chunk Types
//
// The case of each type letter carries one property bit:
//
//	byte 0  uppercase = critical       lowercase = ancillary
//	byte 1  uppercase = public         lowercase = private
//	byte 2  uppercase = reserved valid lowercase = invalid
//	byte 3  lowercase = safe to copy   uppercase = unsafe to copy
//
// # CRC32 Calculation
//
// The checksum is CRC-32/ISO-HDLC (the zlib polynomial, hash/crc32's IEEE
// table) over the 4 type bytes followed by the data. The length and CRC
// fields are never included.
//
// # Usage
//
//	chunkType, err := codec.ParseChunkType("RuSt")
//	if err != nil {
//	    return err
//	}
//	chunk := codec.NewChunk(chunkType, []byte("hidden message"))
//
//	decoded, err := codec.DecodeChunk(chunk.Bytes())
//	if errors.Is(err, codec.ErrChecksumMismatch) {
//	    return err // chunk is corrupted
//	}
//
// # Error Handling
//
// Every failure wraps one of the Err* sentinels. Decode failures are
// *DecodeError values carrying the field, offset and expected/actual
// values involved.
//
// # Thread Safety
//
// Chunk and ChunkType values are immutable after creation and safe to share
// between goroutines.
package codec
