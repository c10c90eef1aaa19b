package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fragmentRecord is the table row for a DrawingFragment.
type fragmentRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	FrameNumber int    `gorm:"index;not null"`
	Author      string `gorm:"size:128"`
	Timestamp   time.Time
	Width       float64
	Height      float64
	Strokes     datatypes.JSONSlice[Stroke]
}

func (fragmentRecord) TableName() string {
	return "fragments"
}

func toRecord(f DrawingFragment) fragmentRecord {
	return fragmentRecord{
		ID:          f.ID,
		FrameNumber: f.FrameNumber,
		Author:      f.Author,
		Timestamp:   f.Timestamp,
		Width:       f.Width,
		Height:      f.Height,
		Strokes:     datatypes.JSONSlice[Stroke](f.Strokes),
	}
}

func (r fragmentRecord) fragment() DrawingFragment {
	return DrawingFragment{
		ID:          r.ID,
		FrameNumber: r.FrameNumber,
		Author:      r.Author,
		Timestamp:   r.Timestamp,
		Width:       r.Width,
		Height:      r.Height,
		Strokes:     []Stroke(r.Strokes),
	}
}

type gormStore struct {
	db *gorm.DB
}

func newGormStore(cfg StorageConfig) (*gormStore, error) {
	db, err := openFragmentDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&fragmentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate fragments table: %w", err)
	}
	return &gormStore{db: db}, nil
}

// openFragmentDB connects to Postgres when asked to, falling back to the
// local SQLite file when Postgres cannot be reached.
func openFragmentDB(cfg StorageConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	if cfg.Type == "postgres" {
		db, err := openPostgres(cfg.PostgresDSN, gormCfg)
		if err == nil {
			Log.Info().Msg("Connected to Postgres fragment store")
			return db, nil
		}
		Log.Error().Err(err).Msg("Failed to connect to Postgres, trying SQLite")
	}

	if cfg.SQLitePath == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.SQLitePath, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	Log.Info().Str("path", cfg.SQLitePath).Msg("Using local SQLite fragment store")
	return db, nil
}

func openPostgres(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	return db, nil
}

func (s *gormStore) SaveFragment(f DrawingFragment) error {
	rec := toRecord(f)
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("insert fragment %s: %w", f.ID, err)
	}
	return nil
}

func (s *gormStore) GetAllFragments() ([]DrawingFragment, error) {
	var records []fragmentRecord
	if err := s.db.Order("timestamp asc, id asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load fragments: %w", err)
	}
	out := make([]DrawingFragment, len(records))
	for i, r := range records {
		out[i] = r.fragment()
	}
	return out, nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
