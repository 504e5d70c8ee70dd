package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pngme/pkg/png"
)

// ErrImageNotFound is returned for ids that are not in the archive.
var ErrImageNotFound = errors.New("image not found")

var (
	imagePrefix = []byte("image/")
	imageUpper  = []byte("image0") // '0' sorts directly after '/'
)

// ArchiveStore keeps PNG files in a pebble database keyed by KSUID.
type ArchiveStore struct {
	db *pebble.DB
	mu sync.Mutex // held across every read-modify-write and delete
}

// NewArchiveStore opens (or creates) the archive in dir.
func NewArchiveStore(dir string) (*ArchiveStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &ArchiveStore{db: db}, nil
}

func imageKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(imagePrefix)+len(id))
	key = append(key, imagePrefix...)
	return append(key, id.Bytes()...)
}

func validateImage(data []byte) error {
	if _, err := png.Decode(data); err != nil {
		return fmt.Errorf("rejecting image: %w", err)
	}
	return nil
}

// Create stores data under a new id. data must decode as a PNG container.
func (s *ArchiveStore) Create(data []byte) (ksuid.KSUID, error) {
	if err := validateImage(data); err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(imageKey(id), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store image: %w", err)
	}
	return id, nil
}

// Read returns the stored bytes for id.
func (s *ArchiveStore) Read(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(imageKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrImageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", id, err)
	}
	defer closer.Close()

	return bytes.Clone(data), nil
}

// Modify replaces the image stored under id with fn applied to its current
// bytes. Modifications and deletes are serialized, so fn always sees the
// result of the previous write. An error from fn leaves the image unchanged,
// as does a result that does not decode as a PNG container.
func (s *ArchiveStore) Modify(id ksuid.KSUID, fn func(data []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.Read(id)
	if err != nil {
		return err
	}
	updated, err := fn(data)
	if err != nil {
		return err
	}
	if err := validateImage(updated); err != nil {
		return err
	}
	if err := s.db.Set(imageKey(id), updated, pebble.Sync); err != nil {
		return fmt.Errorf("failed to update image %s: %w", id, err)
	}
	return nil
}

// Delete removes id from the archive.
func (s *ArchiveStore) Delete(id ksuid.KSUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Read(id); err != nil {
		return err
	}
	return s.db.Delete(imageKey(id), pebble.Sync)
}

// List returns every stored id in KSUID order, which sorts by creation
// second.
func (s *ArchiveStore) List() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: imagePrefix,
		UpperBound: imageUpper,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer iter.Close()

	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[len(imagePrefix):])
		if err != nil {
			return nil, fmt.Errorf("corrupt archive key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, iter.Error()
}

// Close releases the underlying database.
func (s *ArchiveStore) Close() error {
	return s.db.Close()
}
