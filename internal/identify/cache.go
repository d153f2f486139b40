package identify

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"mkvplan/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cache schema version. Bump this when the
// schema changes; stale databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the cache database was created by an
// incompatible version.
var ErrSchemaMismatch = errors.New("identify cache schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Cache persists identify results in SQLite, keyed by source path and
// invalidated when the file's mtime or size changes.
type Cache struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenCache initializes or connects to the cache database inside dir. A
// file lock guards schema initialization against concurrent invocations.
func OpenCache(dir string, logger *slog.Logger) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("identify cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "identify.lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	dbPath := filepath.Join(dir, "identify.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{
		db:     db,
		path:   dbPath,
		logger: logging.NewComponentLogger(logger, "identifycache"),
	}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return c.createSchema(ctx)
	}

	var version int
	err = c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, c.path)
	}
	return nil
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

type fileKey struct {
	path    string
	mtimeNS int64
	size    int64
}

func keyFor(path string) (fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fileKey{}, err
	}
	return fileKey{path: abs, mtimeNS: info.ModTime().UnixNano(), size: info.Size()}, nil
}

func (c *Cache) lookup(ctx context.Context, key fileKey) ([]Track, bool) {
	var (
		mtimeNS int64
		size    int64
		payload string
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT mtime_ns, size_bytes, payload FROM identify_results WHERE path = ?", key.path,
	).Scan(&mtimeNS, &size, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache lookup failed", logging.Error(err), logging.String("path", key.path))
		return nil, false
	}
	if mtimeNS != key.mtimeNS || size != key.size {
		return nil, false
	}

	var tracks []Track
	if err := json.Unmarshal([]byte(payload), &tracks); err != nil {
		c.logger.Warn("cache payload corrupt", logging.Error(err), logging.String("path", key.path))
		return nil, false
	}
	return tracks, true
}

func (c *Cache) store(ctx context.Context, key fileKey, tracks []Track) error {
	payload, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	return retryOnBusy(ctx, func() error {
		_, err := c.db.ExecContext(ctx,
			`INSERT INTO identify_results (path, mtime_ns, size_bytes, payload)
             VALUES (?, ?, ?, ?)
             ON CONFLICT(path) DO UPDATE SET
                 mtime_ns = excluded.mtime_ns,
                 size_bytes = excluded.size_bytes,
                 payload = excluded.payload,
                 created_at = datetime('now')`,
			key.path, key.mtimeNS, key.size, string(payload))
		return err
	})
}

// CachingProvider wraps a Provider with the identify cache. Cache failures
// degrade to the inner provider; they never fail resolution.
type CachingProvider struct {
	inner  Provider
	cache  *Cache
	logger *slog.Logger
}

// NewCachingProvider wraps inner with cache. A nil cache passes through.
func NewCachingProvider(inner Provider, cache *Cache, logger *slog.Logger) *CachingProvider {
	return &CachingProvider{
		inner:  inner,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "identifycache"),
	}
}

// Tracks implements Provider.
func (p *CachingProvider) Tracks(ctx context.Context, source string) ([]Track, error) {
	if p.cache == nil {
		return p.inner.Tracks(ctx, source)
	}

	key, err := keyFor(source)
	if err != nil {
		return p.inner.Tracks(ctx, source)
	}
	if tracks, ok := p.cache.lookup(ctx, key); ok {
		p.logger.Debug("cache hit", logging.String("path", key.path))
		return tracks, nil
	}

	tracks, err := p.inner.Tracks(ctx, source)
	if err != nil {
		return nil, err
	}
	if storeErr := p.cache.store(ctx, key, tracks); storeErr != nil {
		p.logger.Warn("cache store failed", logging.Error(storeErr), logging.String("path", key.path))
	}
	return tracks, nil
}
