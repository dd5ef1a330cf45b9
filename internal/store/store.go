package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/paperforge/internal/model"
)

var (
	// ErrNotFound is returned when no draft has the requested ID
	ErrNotFound = errors.New("draft not found")

	// ErrLegacyDraft is returned when a pre-layer draft was found and removed
	ErrLegacyDraft = errors.New("legacy draft removed")
)

// Store persists drafts
type Store interface {
	Save(ctx context.Context, draft *model.Draft) error
	Load(ctx context.Context, id string) (*model.Draft, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Summary, error)
	CleanupLegacy(ctx context.Context) (int, error)
	Close() error
}

// Summary is the listing view of a draft
type Summary struct {
	ID        string    `json:"id" yaml:"id"`
	Country   string    `json:"country" yaml:"country"`
	Committee string    `json:"committee" yaml:"committee"`
	Topic     string    `json:"topic" yaml:"topic"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

func summarize(d *model.Draft) Summary {
	return Summary{
		ID:        d.ID,
		Country:   d.Country,
		Committee: d.Committee,
		Topic:     d.Topic,
		UpdatedAt: d.UpdatedAt,
	}
}

func sortSummaries(s []Summary) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].UpdatedAt.After(s[j].UpdatedAt)
	})
}

// stamp prepares a draft for writing and returns its encoding
func stamp(d *model.Draft) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("nil draft")
	}
	if err := validateID(d.ID); err != nil {
		return nil, err
	}
	d.Version = model.SchemaVersion
	d.UpdatedAt = time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = d.UpdatedAt
	}

	return encode(d)
}

func encode(d *model.Draft) ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal draft: %w", err)
	}
	return data, nil
}

// versionOf reads only the schema version of an encoded draft.
// A missing version counts as legacy.
func versionOf(data []byte) (int, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return 0, fmt.Errorf("decode draft: %w", err)
	}
	return header.Version, nil
}

func isLegacy(version int) bool {
	return version < model.SchemaVersion
}

func decode(data []byte) (*model.Draft, error) {
	var d model.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return fmt.Errorf("invalid draft id %q", id)
	}
	return nil
}
