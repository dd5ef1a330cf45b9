package store

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/paperforge/internal/model"
)

// MemoryStore keeps encoded drafts in process memory
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Save stores a copy of the draft
func (s *MemoryStore) Save(_ context.Context, d *model.Draft) error {
	data, err := stamp(d)
	if err != nil {
		return err
	}
	s.cache.Set(d.ID, data, gocache.NoExpiration)
	return nil
}

// Load returns a copy of the stored draft
func (s *MemoryStore) Load(_ context.Context, id string) (*model.Draft, error) {
	data, ok := s.get(id)
	if !ok {
		return nil, ErrNotFound
	}

	version, err := versionOf(data)
	if err != nil {
		return nil, err
	}
	if isLegacy(version) {
		s.cache.Delete(id)
		return nil, ErrLegacyDraft
	}
	return decode(data)
}

// Delete removes a draft
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if _, ok := s.get(id); !ok {
		return ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// List summarizes current-schema drafts
func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	var out []Summary
	for _, item := range s.cache.Items() {
		data, ok := item.Object.([]byte)
		if !ok {
			continue
		}
		if version, err := versionOf(data); err != nil || isLegacy(version) {
			continue
		}
		if d, err := decode(data); err == nil {
			out = append(out, summarize(d))
		}
	}
	sortSummaries(out)
	return out, nil
}

// CleanupLegacy removes legacy drafts
func (s *MemoryStore) CleanupLegacy(_ context.Context) (int, error) {
	removed := 0
	for id, item := range s.cache.Items() {
		data, ok := item.Object.([]byte)
		if !ok {
			continue
		}
		if version, err := versionOf(data); err == nil && isLegacy(version) {
			s.cache.Delete(id)
			removed++
		}
	}
	return removed, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }

// putRaw stores an already-encoded record as is
func (s *MemoryStore) putRaw(id string, data []byte) {
	s.cache.Set(id, data, gocache.NoExpiration)
}

func (s *MemoryStore) get(id string) ([]byte, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}
