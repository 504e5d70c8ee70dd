// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pngme/pkg/api" //nolint:depguard
	"github.com/ssargent/pngme/pkg/storage"
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory  api.ServerFactory
	archiveFactory api.ArchiveFactory
	files          *storage.FileStore
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory:  api.NewServerFactory(),
		archiveFactory: api.NewArchiveFactory(),
		files:          storage.NewOSFileStore(),
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// GetArchiveFactory returns the archive factory
func (c *Container) GetArchiveFactory() api.ArchiveFactory {
	return c.archiveFactory
}

// GetFileStore returns the store used to read and write PNG files
func (c *Container) GetFileStore() *storage.FileStore {
	return c.files
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetArchiveFactory allows overriding the archive factory (for testing)
func (c *Container) SetArchiveFactory(factory api.ArchiveFactory) {
	c.archiveFactory = factory
}

// SetFileStore allows overriding the file store (for testing)
func (c *Container) SetFileStore(files *storage.FileStore) {
	c.files = files
}
