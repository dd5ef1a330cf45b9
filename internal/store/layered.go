package store

import (
	"context"
	"errors"

	"github.com/ppiankov/paperforge/internal/model"
)

// LayeredStore serves reads from memory and writes through to a backing store
type LayeredStore struct {
	memory  *MemoryStore
	backing Store
}

// NewLayeredStore puts an in-memory layer in front of backing
func NewLayeredStore(backing Store) *LayeredStore {
	return &LayeredStore{
		memory:  NewMemoryStore(),
		backing: backing,
	}
}

// Save writes to the backing store first, then to memory
func (s *LayeredStore) Save(ctx context.Context, d *model.Draft) error {
	if err := s.backing.Save(ctx, d); err != nil {
		return err
	}
	data, err := encode(d)
	if err != nil {
		return err
	}
	s.memory.putRaw(d.ID, data)
	return nil
}

// Load checks memory first, then the backing store
func (s *LayeredStore) Load(ctx context.Context, id string) (*model.Draft, error) {
	if d, err := s.memory.Load(ctx, id); err == nil {
		return d, nil
	}

	d, err := s.backing.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Promote without restamping UpdatedAt
	if data, err := encode(d); err == nil {
		s.memory.putRaw(id, data)
	}
	return d, nil
}

// Delete removes from both layers
func (s *LayeredStore) Delete(ctx context.Context, id string) error {
	_ = s.memory.Delete(ctx, id)
	return s.backing.Delete(ctx, id)
}

// List reads the backing store
func (s *LayeredStore) List(ctx context.Context) ([]Summary, error) {
	return s.backing.List(ctx)
}

// CleanupLegacy cleans both layers and reports the backing count
func (s *LayeredStore) CleanupLegacy(ctx context.Context) (int, error) {
	_, _ = s.memory.CleanupLegacy(ctx)
	return s.backing.CleanupLegacy(ctx)
}

// Close closes the backing store
func (s *LayeredStore) Close() error {
	return s.backing.Close()
}

var _ Store = (*LayeredStore)(nil)

// IsMissing reports whether err means the draft is not available
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrLegacyDraft)
}
