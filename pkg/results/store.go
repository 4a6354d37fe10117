package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dbehnke/turbosim/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gorm.io/driver/sqlite"
	_ "modernc.org/sqlite"
)

// Config holds run-history store configuration.
type Config struct {
	Path string // path to the SQLite database file
}

// Store wraps the GORM database connection backing the run-history tables.
type Store struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewStore opens (creating if necessary) the sqlite-backed run-history
// store and runs migrations.
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	if cfg.Path == "" {
		cfg.Path = "turbosim.db"
	}

	dir := filepath.Dir(cfg.Path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	gormLog := gormlogger.New(
		&gormLogAdapter{log: log},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        cfg.Path,
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.AutoMigrate(&RunRecord{}, &SimulationResult{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("run history store initialized", logger.String("path", cfg.Path))

	return &Store{db: db, logger: log}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveRun inserts a run record.
func (s *Store) SaveRun(run *RunRecord) error {
	return s.db.Create(run).Error
}

// SaveResult inserts one Eb/N0 result row.
func (s *Store) SaveResult(result *SimulationResult) error {
	return s.db.Create(result).Error
}

// RecentRuns retrieves the most recent N run records.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// ResultsForRun retrieves every result row recorded for one run, ordered by
// Eb/N0.
func (s *Store) ResultsForRun(runID string) ([]SimulationResult, error) {
	var rows []SimulationResult
	err := s.db.Where("run_id = ?", runID).Order("eb_n0_db ASC").Find(&rows).Error
	return rows, err
}

type gormLogAdapter struct {
	log *logger.Logger
}

func (l *gormLogAdapter) Printf(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}
