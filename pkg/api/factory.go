// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"log/slog"

	"github.com/ssargent/pngme/pkg/storage"
)

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(
	ctx context.Context,
	archive ImageArchive,
	config ServerConfig,
	logger *slog.Logger,
) error {
	return StartServer(ctx, archive, config, logger)
}

// DefaultArchiveFactory opens pebble-backed archives
type DefaultArchiveFactory struct{}

// NewArchiveFactory creates a new archive factory
func NewArchiveFactory() ArchiveFactory {
	return &DefaultArchiveFactory{}
}

// OpenArchive opens the archive stored in dataDir
func (f *DefaultArchiveFactory) OpenArchive(dataDir string) (ArchiveCloser, error) {
	archive, err := storage.NewArchiveStore(dataDir)
	if err != nil {
		return nil, err
	}
	return archive, nil
}
