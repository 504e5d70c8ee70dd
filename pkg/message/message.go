// Package message hides, reveals and strips text messages in PNG chunks.
//
// All operations take and return whole file contents; reading and writing
// files is left to the caller.
package message

import (
	"fmt"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/png"
)

// Summary describes one chunk of a container.
type Summary struct {
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Length     uint32 `json:"length"`
	CRC        uint32 `json:"crc"`
	Critical   bool   `json:"critical"`
	Public     bool   `json:"public"`
	SafeToCopy bool   `json:"safe_to_copy"`
}

// Summarize describes chunk at position index.
func Summarize(index int, chunk *codec.Chunk) Summary {
	t := chunk.Type()
	return Summary{
		Index:      index,
		Type:       t.String(),
		Length:     chunk.Length(),
		CRC:        chunk.CRC(),
		Critical:   t.IsCritical(),
		Public:     t.IsPublic(),
		SafeToCopy: t.IsSafeToCopy(),
	}
}

// Encode appends a chunk of type chunkType holding msg and returns the new
// file contents.
func Encode(file []byte, chunkType, msg string) ([]byte, error) {
	p, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	t, err := codec.ParseChunkType(chunkType)
	if err != nil {
		return nil, err
	}

	p.AppendChunk(codec.NewChunk(t, []byte(msg)))
	return p.Bytes(), nil
}

// Decode returns the text of the first chunk of type chunkType.
func Decode(file []byte, chunkType string) (string, error) {
	p, err := png.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode png: %w", err)
	}

	chunk, err := p.ChunkByType(chunkType)
	if err != nil {
		return "", err
	}
	if chunk == nil {
		return "", fmt.Errorf("no message in %s chunk: %w", chunkType, codec.ErrNotFound)
	}
	return chunk.DataAsString()
}

// Remove strips the first chunk of type chunkType and returns the new file
// contents together with a summary of the removed chunk, indexed by the
// position it held.
func Remove(file []byte, chunkType string) ([]byte, Summary, error) {
	p, err := png.Decode(file)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("decode png: %w", err)
	}

	before := p.Chunks()
	removed, err := p.RemoveChunk(chunkType)
	if err != nil {
		return nil, Summary{}, err
	}

	index := 0
	for i, c := range before {
		if c == removed {
			index = i
			break
		}
	}
	return p.Bytes(), Summarize(index, removed), nil
}

// List summarizes every chunk in file, in order.
func List(file []byte) ([]Summary, error) {
	p, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	out := make([]Summary, 0, p.Len())
	for i, c := range p.Chunks() {
		out = append(out, Summarize(i, c))
	}
	return out, nil
}
