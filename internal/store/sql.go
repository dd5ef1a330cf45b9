package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/ppiankov/paperforge/internal/model"
)

// draftRecord is the relational row of a draft. The full document lives in
// Payload; the other columns serve listing and cleanup.
type draftRecord struct {
	ID        string         `gorm:"column:id;primaryKey;size:64"`
	Version   int            `gorm:"column:version;index"`
	Country   string         `gorm:"column:country"`
	Committee string         `gorm:"column:committee"`
	Topic     string         `gorm:"column:topic"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index"`
}

func (draftRecord) TableName() string { return "drafts" }

// SQLStore persists drafts through gorm on SQLite or Postgres
type SQLStore struct {
	db *gorm.DB
}

// OpenSQL connects with the named dialect ("sqlite" or "postgres") and
// migrates the drafts table
func OpenSQL(dialect, dsn string) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch dialect {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL dialect: %s", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	return NewSQLStore(db)
}

// NewSQLStore wraps an existing connection and migrates the drafts table
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate drafts: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Save upserts the draft
func (s *SQLStore) Save(ctx context.Context, d *model.Draft) error {
	data, err := stamp(d)
	if err != nil {
		return err
	}

	rec := draftRecord{
		ID:        d.ID,
		Version:   d.Version,
		Country:   d.Country,
		Committee: d.Committee,
		Topic:     d.Topic,
		Payload:   datatypes.JSON(data),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load reads a draft. Legacy rows are deleted and reported as ErrLegacyDraft.
func (s *SQLStore) Load(ctx context.Context, id string) (*model.Draft, error) {
	var rec draftRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	if isLegacy(rec.Version) {
		if err := s.db.WithContext(ctx).Delete(&draftRecord{}, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("remove legacy draft: %w", err)
		}
		return nil, ErrLegacyDraft
	}

	var d model.Draft
	if err := json.Unmarshal(rec.Payload, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Delete removes a draft
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&draftRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete draft: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List summarizes current-schema drafts, most recently updated first
func (s *SQLStore) List(ctx context.Context) ([]Summary, error) {
	var recs []draftRecord
	err := s.db.WithContext(ctx).
		Select("id", "country", "committee", "topic", "updated_at").
		Where("version >= ?", model.SchemaVersion).
		Order("updated_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	out := make([]Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, Summary{
			ID:        r.ID,
			Country:   r.Country,
			Committee: r.Committee,
			Topic:     r.Topic,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// CleanupLegacy removes every legacy row
func (s *SQLStore) CleanupLegacy(ctx context.Context) (int, error) {
	res := s.db.WithContext(ctx).Where("version < ?", model.SchemaVersion).Delete(&draftRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup legacy drafts: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Close releases the connection pool
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
