package png

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ssargent/pngme/pkg/codec"
)

// Signature is the standard PNG file signature.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// Png is an ordered sequence of chunks.
type Png struct {
	chunks []*codec.Chunk
}

// New returns an empty container.
func New() *Png {
	return &Png{}
}

// FromChunks builds a container holding chunks in the given order.
func FromChunks(chunks []*codec.Chunk) *Png {
	owned := make([]*codec.Chunk, len(chunks))
	copy(owned, chunks)
	return &Png{chunks: owned}
}

// Decode parses a complete container from buf.
func Decode(buf []byte) (*Png, error) {
	if len(buf) < len(Signature) || !bytes.Equal(buf[:len(Signature)], Signature[:]) {
		return nil, &codec.DecodeError{Kind: codec.ErrBadSignature, Field: "signature", Offset: 0}
	}

	p := &Png{}
	offset := len(Signature)
	for offset < len(buf) {
		rest := buf[offset:]
		if len(rest) < codec.Overhead {
			return nil, &codec.DecodeError{
				Kind:   codec.ErrTrailingBytes,
				Field:  "chunk",
				Offset: offset,
				Actual: uint64(len(rest)),
			}
		}

		chunk, err := codec.DecodeChunk(rest)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", len(p.chunks), codec.WithOffset(err, offset))
		}
		p.chunks = append(p.chunks, chunk)
		offset += chunk.Size()
	}

	return p, nil
}

// Header returns the signature emitted in front of the chunks.
func (p *Png) Header() [8]byte {
	return Signature
}

// Chunks returns the chunks in stored order. The returned slice is a copy;
// the chunks themselves are shared.
func (p *Png) Chunks() []*codec.Chunk {
	out := make([]*codec.Chunk, len(p.chunks))
	copy(out, p.chunks)
	return out
}

// Len returns the number of chunks.
func (p *Png) Len() int {
	return len(p.chunks)
}

// AppendChunk adds chunk to the end of the sequence.
func (p *Png) AppendChunk(chunk *codec.Chunk) {
	p.chunks = append(p.chunks, chunk)
}

// ChunkByType returns the first chunk whose type is chunkType, or nil if
// there is none. The error is non-nil only when chunkType is malformed.
func (p *Png) ChunkByType(chunkType string) (*codec.Chunk, error) {
	i, err := p.indexOf(chunkType)
	if err != nil || i < 0 {
		return nil, err
	}
	return p.chunks[i], nil
}

// RemoveChunk removes and returns the first chunk whose type is chunkType.
func (p *Png) RemoveChunk(chunkType string) (*codec.Chunk, error) {
	i, err := p.indexOf(chunkType)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("remove %s: %w", chunkType, codec.ErrNotFound)
	}

	removed := p.chunks[i]
	p.chunks = append(p.chunks[:i:i], p.chunks[i+1:]...)
	return removed, nil
}

func (p *Png) indexOf(chunkType string) (int, error) {
	want, err := codec.ParseChunkType(chunkType)
	if err != nil {
		return -1, err
	}
	for i, c := range p.chunks {
		if c.Type() == want {
			return i, nil
		}
	}
	return -1, nil
}

// Size returns the encoded size of the container.
func (p *Png) Size() int {
	n := len(Signature)
	for _, c := range p.chunks {
		n += c.Size()
	}
	return n
}

// Bytes serializes the container.
func (p *Png) Bytes() []byte {
	buf := make([]byte, 0, p.Size())
	header := p.Header()
	buf = append(buf, header[:]...)
	for _, c := range p.chunks {
		buf = c.AppendTo(buf)
	}
	return buf
}

func (p *Png) String() string {
	var sb strings.Builder
	sb.WriteString("Png {\n")
	for _, c := range p.chunks {
		for _, line := range strings.Split(c.String(), "\n") {
			sb.WriteString("  ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("}")
	return sb.String()
}
