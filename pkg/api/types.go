package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/message"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MessageRequest asks for a message to be hidden in a new chunk
type MessageRequest struct {
	ChunkType string `json:"chunk_type"`
	Message   string `json:"message"`
}

// MessageResponse carries a message read back from a chunk
type MessageResponse struct {
	ChunkType string `json:"chunk_type"`
	Message   string `json:"message"`
}

// ImageResponse describes an archived image
type ImageResponse struct {
	ID     string            `json:"id"`
	Size   int               `json:"size"`
	Chunks []message.Summary `json:"chunks,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port         int
	Bind         string
	APIKey       string
	DataDir      string
	MaxImageSize int64 // bytes accepted per upload, 0 = DefaultMaxImageSize
}

// DefaultMaxImageSize bounds request bodies when ServerConfig leaves it unset.
const DefaultMaxImageSize = 32 << 20

// ImageArchive defines the storage operations the server needs
type ImageArchive interface {
	Create(data []byte) (ksuid.KSUID, error)
	Read(id ksuid.KSUID) ([]byte, error)
	// Modify rewrites the image under id with fn. Calls for the same
	// archive are serialized with each other and with Delete.
	Modify(id ksuid.KSUID, fn func(data []byte) ([]byte, error)) error
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
}
