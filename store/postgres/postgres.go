// Package postgres provides a Store backed by a Postgres table of
// codec-encoded values:
//
//	CREATE TABLE IF NOT EXISTS <table> (
//	    key   TEXT PRIMARY KEY,
//	    value BYTEA NOT NULL
//	)
//
// The table is created on construction when missing.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unkn0wn-root/cachekv/codec"
	"github.com/unkn0wn-root/cachekv/store"
)

type Store[V any] struct {
	pool      *pgxpool.Pool
	codec     codec.Codec[V]
	table     string
	closePool bool
}

var _ store.Store[int] = (*Store[int])(nil)

// Table names are interpolated into SQL text (placeholders cannot carry
// identifiers), so they are validated against this pattern.
var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Config[V any] struct {
	Pool  *pgxpool.Pool
	Codec codec.Codec[V]

	// Table is the backing table name; must match ^[a-z_][a-z0-9_]*$.
	// Defaults to "cachekv".
	Table string

	ClosePool bool // set true only if this store exclusively owns the pool
}

func New[V any](ctx context.Context, cfg Config[V]) (*Store[V], error) {
	if cfg.Pool == nil {
		return nil, errors.New("postgres store: nil pool")
	}
	if cfg.Codec == nil {
		return nil, errors.New("postgres store: codec is required")
	}
	table := cfg.Table
	if table == "" {
		table = "cachekv"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("postgres store: invalid table name %q", table)
	}

	s := &Store[V]{pool: cfg.Pool, codec: cfg.Codec, table: table, closePool: cfg.ClosePool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[V]) ensureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key   TEXT PRIMARY KEY,
		value BYTEA NOT NULL
	)`, s.table)
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store[V]) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store[V]) Set(ctx context.Context, key string, value V) error {
	b, err := s.codec.Encode(value)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, s.table), key, b)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store[V]) Get(ctx context.Context, key string, def V) (V, error) {
	v, err := s.GetOrFail(ctx, key)
	if errors.Is(err, store.ErrNoSuchKey) {
		return def, nil
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

func (s *Store[V]) GetOrFail(ctx context.Context, key string) (V, error) {
	var zero V
	var b []byte
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table), key).Scan(&b)
	if err == pgx.ErrNoRows {
		return zero, store.Missing(key)
	}
	if err != nil {
		return zero, fmt.Errorf("get %q: %w", key, err)
	}
	return s.codec.Decode(b)
}

func (s *Store[V]) GetMultiple(ctx context.Context, keys []string, def V) (map[string]V, error) {
	found, err := s.selectMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		if v, ok := found[k]; ok {
			out[k] = v
		} else {
			out[k] = def
		}
	}
	return out, nil
}

func (s *Store[V]) GetMultipleOrFail(ctx context.Context, keys []string) (map[string]V, error) {
	found, err := s.selectMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, store.Missing(missing...)
	}
	return found, nil
}

// selectMany fetches all present keys in one query via key = ANY($1).
func (s *Store[V]) selectMany(ctx context.Context, keys []string) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT key, value FROM %s WHERE key = ANY($1)`, s.table), keys)
	if err != nil {
		return nil, fmt.Errorf("get multiple: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		var b []byte
		if err := rows.Scan(&k, &b); err != nil {
			return nil, fmt.Errorf("get multiple scan: %w", err)
		}
		v, err := s.codec.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", k, err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get multiple rows: %w", err)
	}
	return out, nil
}

func (s *Store[V]) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (s *Store[V]) Exists(ctx context.Context, key string) (bool, error) {
	var found bool
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE key = $1)`, s.table), key).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return found, nil
}

func (s *Store[V]) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Close releases the pool only when this store owns it.
func (s *Store[V]) Close(context.Context) error {
	if s.closePool {
		s.pool.Close()
	}
	return nil
}
