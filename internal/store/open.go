package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

// Open builds the store selected by cfg.Backend
func Open(cfg model.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return NewLayeredStore(NewFileStore(cfg.Dir)), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
			dsn = filepath.Join(cfg.Dir, "paperforge.db")
		}
		return OpenSQL("sqlite", dsn)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		return OpenSQL("postgres", cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: file, memory, sqlite, postgres)", cfg.Backend)
	}
}
