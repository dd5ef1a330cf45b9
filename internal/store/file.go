package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

// FileStore keeps one JSON document per draft under <dir>/drafts
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: filepath.Join(dir, "drafts")}
}

// Save writes the draft atomically
func (s *FileStore) Save(_ context.Context, d *model.Draft) error {
	data, err := stamp(d)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, d.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write draft: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close draft: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(d.ID)); err != nil {
		return fmt.Errorf("commit draft: %w", err)
	}
	return nil
}

// Load reads a draft. Legacy drafts are deleted and reported as ErrLegacyDraft.
func (s *FileStore) Load(_ context.Context, id string) (*model.Draft, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	path := s.path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read draft: %w", err)
	}

	version, err := versionOf(data)
	if err != nil {
		return nil, err
	}
	if isLegacy(version) {
		_ = os.Remove(path)
		return nil, ErrLegacyDraft
	}
	return decode(data)
}

// Delete removes a draft
func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// List summarizes current-schema drafts, most recently updated first
func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	var out []Summary
	err := s.each(func(path string, data []byte) error {
		version, err := versionOf(data)
		if err != nil || isLegacy(version) {
			return nil
		}
		d, err := decode(data)
		if err != nil {
			return nil
		}
		out = append(out, summarize(d))
		return nil
	})
	sortSummaries(out)
	return out, err
}

// CleanupLegacy removes every legacy draft and reports how many were removed
func (s *FileStore) CleanupLegacy(_ context.Context) (int, error) {
	removed := 0
	err := s.each(func(path string, data []byte) error {
		version, err := versionOf(data)
		if err != nil || !isLegacy(version) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove legacy draft: %w", err)
		}
		removed++
		return nil
	})
	return removed, err
}

// Close is a no-op
func (s *FileStore) Close() error { return nil }

func (s *FileStore) each(fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read drafts dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
