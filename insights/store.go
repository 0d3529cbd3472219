package insights

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron/v2"
	_ "modernc.org/sqlite"

	"github.com/soulfiremc/docsite/logging"
)

// Store persists page views in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the insights database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create insights dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open insights db: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure insights db: %w", err)
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
		CREATE TABLE IF NOT EXISTS views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			event TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_views_timestamp ON views(timestamp);
		CREATE INDEX IF NOT EXISTS idx_views_path ON views(path);

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

// Salt loads the per-installation hashing salt, generating and persisting
// one on first use.
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

// SaveView stores one page view or custom event.
func (s *Store) SaveView(ctx context.Context, v *View) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO views (visitor_id, path, referrer, event, device, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.Path, v.Referrer, v.Event, v.Device, v.Timestamp.UTC())
	return err
}

// TopPaths returns the most viewed paths between from and to, excluding
// custom events.
func (s *Store) TopPaths(ctx context.Context, from, to time.Time, limit int) ([]PathStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views, COUNT(DISTINCT visitor_id) AS visitors
		FROM views
		WHERE event = '' AND timestamp >= ? AND timestamp < ?
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT ?`, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []PathStat
	for rows.Next() {
		var ps PathStat
		if err := rows.Scan(&ps.Path, &ps.Views, &ps.Visitors); err != nil {
			return nil, err
		}
		stats = append(stats, ps)
	}
	return stats, rows.Err()
}

// CleanupOldViews removes views older than the retention period.
func (s *Store) CleanupOldViews(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup views: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler deletes views older than retentionDays once at
// start and then every interval. The returned function stops the scheduler.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) (func() error, error) {
	log := logging.WithComponent("insights")

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create cleanup scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := s.CleanupOldViews(context.Background(), retentionDays)
			if err != nil {
				log.Error().Err(err).Msg("cleanup failed")
				return
			}
			log.Debug().Int64("deleted", n).Msg("cleanup finished")
		}),
		gocron.WithName("insights-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule cleanup: %w", err)
	}
	sched.Start()
	return sched.Shutdown, nil
}
