package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/codec"
	"github.com/ssargent/pngme/pkg/message"
	"github.com/ssargent/pngme/pkg/storage"
)

// Server holds the API server state
type Server struct {
	archive ImageArchive
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server
func NewServer(archive ImageArchive, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if config.MaxImageSize <= 0 {
		config.MaxImageSize = DefaultMaxImageSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		archive: archive,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrImageNotFound), errors.Is(err, codec.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrNotUTF8):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codec.ErrInvalidLength),
		errors.Is(err, codec.ErrInvalidTag),
		errors.Is(err, codec.ErrTruncated),
		errors.Is(err, codec.ErrChecksumMismatch),
		errors.Is(err, codec.ErrBadSignature),
		errors.Is(err, codec.ErrTrailingBytes):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "operation", op, "error", err)
		sendError(w, "Internal server error", status)
		return
	}
	s.logger.Debug("request rejected", "operation", op, "status", status, "error", err)
	sendError(w, err.Error(), status)
}

func (s *Server) imageID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, fmt.Sprintf("Invalid image id: %v", err), http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) refreshArchiveStats() {
	ids, err := s.archive.List()
	if err != nil {
		s.logger.Warn("failed to count archived images", "error", err)
		return
	}
	s.metrics.UpdateArchiveStats(len(ids))
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleCreateImage stores the raw PNG request body
func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxImageSize))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	summaries, err := message.List(body)
	s.metrics.RecordCodecOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	s.metrics.RecordChunks(len(summaries))

	id, err := s.archive.Create(body)
	if err != nil {
		s.fail(w, "create", err)
		return
	}
	s.refreshArchiveStats()

	s.logger.Info("image archived", "id", id.String(), "size", len(body), "chunks", len(summaries))
	sendCreated(w, ImageResponse{ID: id.String(), Size: len(body), Chunks: summaries})
}

// handleListImages returns all archived image ids
func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	ids, err := s.archive.List()
	if err != nil {
		s.fail(w, "list images", err)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sendSuccess(w, map[string]interface{}{"images": out, "count": len(out)})
}

// handleGetImage returns the raw bytes of an archived image
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}
	data, err := s.archive.Read(id)
	if err != nil {
		s.fail(w, "get image", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleDeleteImage removes an image from the archive
func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}
	if err := s.archive.Delete(id); err != nil {
		s.fail(w, "delete image", err)
		return
	}
	s.refreshArchiveStats()
	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

// handleListChunks summarizes the chunks of an archived image
func (s *Server) handleListChunks(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}
	data, err := s.archive.Read(id)
	if err != nil {
		s.fail(w, "list chunks", err)
		return
	}

	start := time.Now()
	summaries, err := message.List(data)
	s.metrics.RecordCodecOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, "list chunks", err)
		return
	}
	s.metrics.RecordChunks(len(summaries))
	sendSuccess(w, ImageResponse{ID: id.String(), Size: len(data), Chunks: summaries})
}

// handleEncodeMessage appends a message chunk to an archived image
func (s *Server) handleEncodeMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}

	var req MessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxImageSize)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	var encoded []byte
	err := s.archive.Modify(id, func(data []byte) ([]byte, error) {
		start := time.Now()
		out, err := message.Encode(data, req.ChunkType, req.Message)
		s.metrics.RecordCodecOperation("encode", err == nil, time.Since(start))
		encoded = out
		return out, err
	})
	if err != nil {
		s.fail(w, "encode", err)
		return
	}

	s.logger.Info("message encoded", "id", id.String(), "chunk_type", req.ChunkType, "size", len(encoded))
	sendCreated(w, ImageResponse{ID: id.String(), Size: len(encoded)})
}

// handleDecodeMessage reads the message in the first chunk of a type
func (s *Server) handleDecodeMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}
	chunkType := chi.URLParam(r, "type")

	data, err := s.archive.Read(id)
	if err != nil {
		s.fail(w, "decode", err)
		return
	}

	start := time.Now()
	msg, err := message.Decode(data, chunkType)
	s.metrics.RecordCodecOperation("decode", err == nil, time.Since(start))
	if err != nil {
		s.fail(w, "decode", err)
		return
	}
	sendSuccess(w, MessageResponse{ChunkType: chunkType, Message: msg})
}

// handleRemoveChunk removes the first chunk of a type from an archived image
func (s *Server) handleRemoveChunk(w http.ResponseWriter, r *http.Request) {
	id, ok := s.imageID(w, r)
	if !ok {
		return
	}
	chunkType := chi.URLParam(r, "type")

	var removed message.Summary
	err := s.archive.Modify(id, func(data []byte) ([]byte, error) {
		start := time.Now()
		stripped, summary, err := message.Remove(data, chunkType)
		s.metrics.RecordCodecOperation("remove", err == nil, time.Since(start))
		removed = summary
		return stripped, err
	})
	if err != nil {
		s.fail(w, "remove", err)
		return
	}

	s.logger.Info("chunk removed", "id", id.String(), "chunk_type", chunkType, "index", removed.Index)
	sendSuccess(w, removed)
}
