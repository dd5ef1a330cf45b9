package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/ppiankov/paperforge/internal/model"
)

const legacyJSON = `{"id":"old-1","version":1,"country":"Chile","answers":{"q1":"x"}}`

type backend struct {
	name string
	open func(t *testing.T) Store
	// plant inserts a raw legacy record
	plant func(t *testing.T, s Store)
}

func backends() []backend {
	return []backend{
		{
			name: "memory",
			open: func(t *testing.T) Store { return NewMemoryStore() },
			plant: func(t *testing.T, s Store) {
				s.(*MemoryStore).putRaw("old-1", []byte(legacyJSON))
			},
		},
		{
			name: "file",
			open: func(t *testing.T) Store { return NewFileStore(t.TempDir()) },
			plant: func(t *testing.T, s Store) {
				fs := s.(*FileStore)
				require.NoError(t, os.MkdirAll(fs.dir, 0755))
				require.NoError(t, os.WriteFile(fs.path("old-1"), []byte(legacyJSON), 0644))
			},
		},
		{
			name: "layered",
			open: func(t *testing.T) Store { return NewLayeredStore(NewFileStore(t.TempDir())) },
			plant: func(t *testing.T, s Store) {
				fs := s.(*LayeredStore).backing.(*FileStore)
				require.NoError(t, os.MkdirAll(fs.dir, 0755))
				require.NoError(t, os.WriteFile(fs.path("old-1"), []byte(legacyJSON), 0644))
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) Store {
				s, err := OpenSQL("sqlite", filepath.Join(t.TempDir(), "drafts.db"))
				require.NoError(t, err)
				return s
			},
			plant: func(t *testing.T, s Store) {
				rec := draftRecord{ID: "old-1", Version: 1, Country: "Chile", Payload: datatypes.JSON(legacyJSON)}
				require.NoError(t, s.(*SQLStore).db.Create(&rec).Error)
			},
		},
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			t.Run("round trip", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				d := model.NewDraft("Kenya", "UNEP", "Plastic Pollution")
				d.Version = 0
				d.SetAnswer(model.LayerComprehension, "whyImportant", "oceans")
				d.AutofillHashes = map[model.Layer]string{model.LayerIdeaFormation: "abc"}
				require.NoError(t, s.Save(ctx, d))
				assert.Equal(t, model.SchemaVersion, d.Version)

				got, err := s.Load(ctx, d.ID)
				require.NoError(t, err)
				assert.Equal(t, "oceans", got.Answer(model.LayerComprehension, "whyImportant"))
				assert.Equal(t, "Kenya", got.Country)
				assert.Equal(t, "abc", got.AutofillHashes[model.LayerIdeaFormation])
				assert.Equal(t, model.SchemaVersion, got.Version)
			})

			t.Run("missing", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				_, err := s.Load(ctx, "nope")
				assert.ErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
			})

			t.Run("delete", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				d := model.NewDraft("Kenya", "UNEP", "x")
				require.NoError(t, s.Save(ctx, d))
				require.NoError(t, s.Delete(ctx, d.ID))
				_, err := s.Load(ctx, d.ID)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("list newest first", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				first := model.NewDraft("Kenya", "UNEP", "first")
				require.NoError(t, s.Save(ctx, first))
				time.Sleep(10 * time.Millisecond)
				second := model.NewDraft("Chile", "UNEP", "second")
				require.NoError(t, s.Save(ctx, second))
				b.plant(t, s)

				list, err := s.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, second.ID, list[0].ID)
				assert.Equal(t, "first", list[1].Topic)
			})

			t.Run("legacy load deletes", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				b.plant(t, s)
				_, err := s.Load(ctx, "old-1")
				assert.ErrorIs(t, err, ErrLegacyDraft)
				assert.True(t, IsMissing(err))

				_, err = s.Load(ctx, "old-1")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("cleanup legacy", func(t *testing.T) {
				s := b.open(t)
				defer func() { _ = s.Close() }()

				current := model.NewDraft("Kenya", "UNEP", "x")
				require.NoError(t, s.Save(ctx, current))
				b.plant(t, s)

				n, err := s.CleanupLegacy(ctx)
				require.NoError(t, err)
				assert.Equal(t, 1, n)

				n, err = s.CleanupLegacy(ctx)
				require.NoError(t, err)
				assert.Zero(t, n)

				_, err = s.Load(ctx, current.ID)
				assert.NoError(t, err)
			})
		})
	}
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", "a/b", `a\b`} {
		d := model.NewDraft("Kenya", "UNEP", "x")
		d.ID = id
		assert.Error(t, s.Save(ctx, d), id)
		_, err := s.Load(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestLayeredStore_ServesFromMemory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLayeredStore(NewFileStore(dir))

	d := model.NewDraft("Kenya", "UNEP", "x")
	require.NoError(t, s.Save(ctx, d))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "drafts")))

	got, err := s.Load(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(model.StoreConfig{Backend: "file", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &LayeredStore{}, s)

	s, err = Open(model.StoreConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(model.StoreConfig{Backend: "sqlite", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, s)
	assert.FileExists(t, filepath.Join(dir, "paperforge.db"))
	require.NoError(t, s.Close())

	_, err = Open(model.StoreConfig{Backend: "postgres"})
	assert.Error(t, err)

	_, err = Open(model.StoreConfig{Backend: "bolt"})
	assert.Error(t, err)
}
