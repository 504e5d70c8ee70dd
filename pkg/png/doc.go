// Package png decodes and encodes PNG-style chunk containers.
//
// A container is the fixed 8-byte PNG signature followed by a sequence of
// chunks (see pkg/codec):
//
//	[89 50 4E 47 0D 0A 1A 0A][Chunk][Chunk]...
//
// Decode accepts a buffer only when it is consumed exactly by whole, valid
// chunks. No end marker is required and IEND receives no special treatment:
// AppendChunk always pushes to the end of the sequence.
//
// Chunk order is preserved through Decode and Bytes. Several chunks may
// share a type; lookups and removals always act on the first one.
package png
