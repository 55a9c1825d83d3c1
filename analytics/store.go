package analytics

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"
)

// Logger is the logging surface used by the cleanup scheduler.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Store provides database operations for analytics.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the analytics database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create analytics dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			delta REAL NOT NULL DEFAULT 0,
			rating TEXT NOT NULL,
			metric_id TEXT NOT NULL DEFAULT '',
			navigation_type TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL,
			browser TEXT NOT NULL DEFAULT '',
			os TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			ip_hash TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_events_name ON events(name, value);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Salt returns the per-installation salt used for IP hashing, generating and
// persisting it on first use.
func (s *Store) Salt(ctx context.Context) (string, error) {
	salt, err := s.GetSetting(ctx, "hash_salt")
	if err != nil {
		return "", fmt.Errorf("read hash salt: %w", err)
	}
	if salt != "" {
		return salt, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(b)
	if err := s.SetSetting(ctx, "hash_salt", salt); err != nil {
		return "", fmt.Errorf("store hash salt: %w", err)
	}
	return salt, nil
}

// SaveEvent stores e, assigning an ID and timestamp when unset.
func (s *Store) SaveEvent(ctx context.Context, e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	e.Timestamp = e.Timestamp.UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, name, value, delta, rating, metric_id, navigation_type,
			path, browser, os, device, ip_hash, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Value, e.Delta, e.Rating, e.MetricID, e.NavigationType,
		e.Path, e.Browser, e.OS, e.Device, e.IPHash, e.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Summary aggregates events recorded in [from, to) per metric name.
func (s *Store) Summary(ctx context.Context, from, to time.Time) ([]MetricSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*), AVG(value),
			SUM(CASE WHEN rating = 'good' THEN 1 ELSE 0 END),
			SUM(CASE WHEN rating = 'needs-improvement' THEN 1 ELSE 0 END),
			SUM(CASE WHEN rating = 'poor' THEN 1 ELSE 0 END)
		FROM events
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY name
		ORDER BY name`, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	summaries := []MetricSummary{}
	for rows.Next() {
		var m MetricSummary
		if err := rows.Scan(&m.Name, &m.Count, &m.Average, &m.Good, &m.NeedsImprovement, &m.Poor); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range summaries {
		m := &summaries[i]
		g.Go(func() error {
			p, err := s.percentile(gctx, m.Name, m.Count, 0.75, from, to)
			if err != nil {
				return fmt.Errorf("p75 %s: %w", m.Name, err)
			}
			m.P75 = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// percentile returns the nearest-rank percentile of a metric's values.
func (s *Store) percentile(ctx context.Context, name string, count int, p float64, from, to time.Time) (float64, error) {
	if count == 0 {
		return 0, nil
	}
	offset := int(math.Ceil(p*float64(count))) - 1
	if offset < 0 {
		offset = 0
	}
	var v float64
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM events
		WHERE name = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY value
		LIMIT 1 OFFSET ?`, name, from.UnixMilli(), to.UnixMilli(), offset).Scan(&v)
	return v, err
}

// DeleteOlderThan removes events recorded before cutoff and returns how many
// were removed.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE timestamp < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("cleanup events: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler periodically removes events older than retention.
// Returns a stop function.
func (s *Store) StartCleanupScheduler(retention, interval time.Duration, logger Logger) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				n, err := s.DeleteOlderThan(context.Background(), time.Now().Add(-retention))
				if err != nil {
					logger.Errorf("analytics cleanup: %v", err)
					continue
				}
				if n > 0 {
					logger.Infof("analytics cleanup removed %d events", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
