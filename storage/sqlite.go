package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteArea stores key/value pairs in one table of a SQLite file. A single
// connection is kept open so PRAGMA data_version only moves for commits made
// by other processes.
type SQLiteArea struct {
	name     string
	path     string
	db       *sql.DB
	logger   *zap.Logger
	debounce time.Duration

	closeOnce sync.Once
}

// SQLiteOption configures a SQLiteArea.
type SQLiteOption func(*SQLiteArea)

// WithSQLiteLogger routes watcher diagnostics to logger.
func WithSQLiteLogger(logger *zap.Logger) SQLiteOption {
	return func(a *SQLiteArea) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithDebounce sets the quiet period applied to file events before the
// database is checked for external commits.
func WithDebounce(d time.Duration) SQLiteOption {
	return func(a *SQLiteArea) {
		if d > 0 {
			a.debounce = d
		}
	}
}

// OpenSQLite opens (creating when missing) the database at path and reports
// it under name. Use MemoryDSN for a throwaway area.
func OpenSQLite(ctx context.Context, name, path string, opts ...SQLiteOption) (*SQLiteArea, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage: sqlite path is required for area %q", name)
	}
	area := &SQLiteArea{
		name:     name,
		path:     path,
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(area)
		}
	}

	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create directory for %q: %w", path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout=5000"}
	if path != MemoryDSN {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create schema in %q: %w", path, err)
	}

	area.db = db
	return area, nil
}

// Name implements Area.
func (a *SQLiteArea) Name() string { return a.name }

// Path returns the database location.
func (a *SQLiteArea) Path() string { return a.path }

// Close releases the database handle.
func (a *SQLiteArea) Close() error {
	var err error
	a.closeOnce.Do(func() {
		err = a.db.Close()
	})
	return err
}

// Probe implements Prober.
func (a *SQLiteArea) Probe(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// Get implements Area.
func (a *SQLiteArea) Get(ctx context.Context, keys ...string) (map[string]any, error) {
	query := "SELECT key, value FROM kv"
	args := make([]any, 0, len(keys))
	if len(keys) > 0 {
		query += " WHERE key IN (" + placeholders(len(keys)) + ")"
		for _, key := range keys {
			args = append(args, key)
		}
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]any{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Set implements Area. All values are written in one transaction.
func (a *SQLiteArea) Set(ctx context.Context, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode value of %q: %w", key, err)
		}
		if _, err := stmt.ExecContext(ctx, key, string(raw)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Remove implements Area.
func (a *SQLiteArea) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		args = append(args, key)
	}
	_, err := a.db.ExecContext(ctx, "DELETE FROM kv WHERE key IN ("+placeholders(len(keys))+")", args...)
	return err
}

// Clear implements Area.
func (a *SQLiteArea) Clear(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, "DELETE FROM kv")
	return err
}

// Watch implements Watcher. File events on the database or its WAL are
// debounced, then PRAGMA data_version decides whether another process
// committed.
func (a *SQLiteArea) Watch(ctx context.Context, notify func()) error {
	if a.path == MemoryDSN {
		return errors.New("storage: in-memory area cannot be watched")
	}
	if notify == nil {
		return errors.New("storage: watch callback is required")
	}

	version, err := a.dataVersion(ctx)
	if err != nil {
		return fmt.Errorf("storage: read data_version: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(a.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("storage: watch %q: %w", dir, err)
	}

	go a.watchLoop(ctx, watcher, version, notify)
	return nil
}

func (a *SQLiteArea) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, version int64, notify func()) {
	defer watcher.Close()

	base := filepath.Base(a.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(a.debounce)
			} else {
				timer.Reset(a.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			a.logger.Warn("sqlite watch error", zap.String("area", a.name), zap.Error(err))

		case <-fire:
			fire = nil
			current, err := a.dataVersion(ctx)
			if err != nil {
				if ctx.Err() == nil {
					a.logger.Warn("sqlite data_version check failed", zap.String("area", a.name), zap.Error(err))
				}
				continue
			}
			if current == version {
				continue
			}
			version = current
			a.logger.Debug("external change detected", zap.String("area", a.name), zap.Int64("data_version", current))
			notify()
		}
	}
}

func (a *SQLiteArea) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	err := a.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version)
	return version, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
