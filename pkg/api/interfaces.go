// Package api provides interfaces for dependency injection
package api

import (
	"context"
	"log/slog"
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, archive ImageArchive, config ServerConfig, logger *slog.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}

// ArchiveCloser is an ImageArchive that holds resources
type ArchiveCloser interface {
	ImageArchive
	Close() error
}

// ArchiveFactory opens image archives
type ArchiveFactory interface {
	// OpenArchive opens the archive stored in dataDir
	OpenArchive(dataDir string) (ArchiveCloser, error)
}
