// Package storage holds the byte stores that feed the codec: FileStore for
// files addressed by path and ArchiveStore for images kept by the API server.
package storage
