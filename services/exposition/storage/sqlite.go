package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("storage")

// sqliteStorage is the sqlite implementation for the snapshot archive
type sqliteStorage struct {
	db               *sql.DB
	retentionSeconds int
	cancelFunc       context.CancelFunc
	wg               sync.WaitGroup
}

// NewSQLiteStorage creates the database, schema, and starts the retention cleaner
func NewSQLiteStorage(dbPath string, retentionSeconds int) (*sqliteStorage, error) {
	err := prepareDirectories(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial empty DB file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = createSchema(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &sqliteStorage{
		db:               db,
		retentionSeconds: retentionSeconds,
		cancelFunc:       cancel,
	}

	s.startRetentionCleaner(ctx)

	return s, nil
}

func prepareDirectories(dbPath string) error {
	return os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL DEFAULT 0,
		format      TEXT    NOT NULL,
		payload     BLOB    NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_recorded_at ON snapshots(recorded_at);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SaveSnapshot appends one encoded snapshot to the archive. recordedAt is the
// capture time in nanoseconds since epoch, durationNs the elapsed time carried
// by the snapshot (0 for snapshots without one).
func (s *sqliteStorage) SaveSnapshot(ctx context.Context, recordedAt int64, durationNs int64, format string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (recorded_at, duration_ns, format, payload)
		VALUES (?, ?, ?, ?)
	`, recordedAt, durationNs, format, payload)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// GetLatestSnapshot fetches the most recently captured snapshot, payload included
func (s *sqliteStorage) GetLatestSnapshot(ctx context.Context) (*common.StoredSnapshot, error) {
	var stored common.StoredSnapshot

	err := s.db.QueryRowContext(ctx, `
		SELECT id, recorded_at, duration_ns, format, payload
		FROM snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`).Scan(&stored.ID, &stored.RecordedAt, &stored.DurationNs, &stored.Format, &stored.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// GetSnapshotHistory returns up to limit archive rows, newest first, without payloads
func (s *sqliteStorage) GetSnapshotHistory(ctx context.Context, limit int) ([]common.StoredSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, duration_ns, format
		FROM snapshots
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []common.StoredSnapshot

	for rows.Next() {
		var stored common.StoredSnapshot

		err = rows.Scan(&stored.ID, &stored.RecordedAt, &stored.DurationNs, &stored.Format)
		if err != nil {
			return nil, err
		}

		results = append(results, stored)
	}

	return results, rows.Err()
}

// DeleteAllSnapshots empties the archive
func (s *sqliteStorage) DeleteAllSnapshots(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM snapshots")
	return err
}

func (s *sqliteStorage) cleanRetainedSnapshots(ctx context.Context) error {
	cutoff := time.Now().Add(-time.Duration(s.retentionSeconds) * time.Second).UnixNano()
	_, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE recorded_at < ?", cutoff)
	return err
}

func (s *sqliteStorage) startRetentionCleaner(ctx context.Context) {
	s.wg.Add(1)

	// max(RetentionSeconds/10, 60)
	intervalSec := s.retentionSeconds / 10
	if intervalSec < 60 {
		intervalSec = 60
	}

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)

	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("running retention cleanup")

				err := s.cleanRetainedSnapshots(ctx)
				if err != nil {
					log.Warn("failed to cleanup retained snapshots", "error", err)
				}
			}
		}
	}()
}

// Close closes the database and stops background routines
func (s *sqliteStorage) Close() error {
	s.cancelFunc()
	s.wg.Wait()
	return s.db.Close()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sqliteStorage) IsInterfaceNil() bool {
	return s == nil
}
