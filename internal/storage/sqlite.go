package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/rentalhub/rentalhub/internal/models"
)

// OpenSQLite opens the sqlite database with production settings and runs
// migrations
func OpenSQLite(url string, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns      = 8     // Reduced for SQLite efficiency
		maxIdleConns      = 4     // Reduced proportionally
		connMaxLifetime   = 300   // 5 minutes
		busyTimeout       = 5000  // 5 seconds
		cacheSize         = 10000 // 10MB
		walAutocheckpoint = 1000  // WAL auto-checkpoint pages
	)

	db, err := gorm.Open(sqlite.Open(url), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
		// Stored timestamps are compared as text, so keep them in one zone
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode must be set first
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA wal_autocheckpoint=%d", walAutocheckpoint),
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SQLStore keeps namespaces in the storage_entries table
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore wraps an opened database
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, namespace, key string) (string, error) {
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return entry.Value, nil
}

func (s *SQLStore) Set(ctx context.Context, namespace, key, value string) error {
	entry := &models.StorageEntry{
		Namespace: namespace,
		Key:       key,
		Value:     value,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, namespace, key string) error {
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *SQLStore) DeleteNamespace(ctx context.Context, namespace string) error {
	err := s.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", namespace, err)
	}
	return nil
}

// PruneIdle deletes every namespace untouched since before cutoff, except
// namespaces where keepKey currently holds keepValue and those listed in
// exclude. It returns the number of rows removed.
func (s *SQLStore) PruneIdle(ctx context.Context, cutoff time.Time, keepKey, keepValue string, exclude ...string) (int64, error) {
	idle := s.db.Model(&models.StorageEntry{}).
		Select("namespace")
	if len(exclude) > 0 {
		idle = idle.Where("namespace NOT IN ?", exclude)
	}
	idle = idle.
		Group("namespace").
		Having("MAX(updated_at) < ? AND SUM(CASE WHEN entry_key = ? AND entry_value = ? THEN 1 ELSE 0 END) = 0",
			cutoff.UTC(), keepKey, keepValue)

	result := s.db.WithContext(ctx).
		Where("namespace IN (?)", idle).
		Delete(&models.StorageEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune storage: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Close flushes WAL writes by closing the database
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
