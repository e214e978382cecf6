// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/salon-desk/internal/logger"
)

// KVStorage is the kvd daemon's persistence for the key-value table it
// serves over HTTP.
type KVStorage interface {
	// Get returns the value stored under key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error

	// Del removes key and reports how many rows were deleted (0 or 1).
	Del(ctx context.Context, key string) (int64, error)

	// Keys lists keys matching pattern. Only the trailing-asterisk glob is
	// supported ("prefix*" or "*"); anything else matches literally.
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// kvStorage implements [KVStorage] on the "kv" table via squirrel-built
// queries, parameterised per dialect.
type kvStorage struct {
	db      *DB
	builder sq.StatementBuilderType
	logger  *logger.Logger
}

// NewKVStorage constructs a [KVStorage] on top of an open connection.
func NewKVStorage(db *DB, logger *logger.Logger) KVStorage {
	logger.Debug().Msg("creating kv storage")

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if db.dialect == DialectPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &kvStorage{db: db, builder: builder, logger: logger}
}

func (s *kvStorage) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.builder.
		Select("value").
		From("kv").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build get query: %w", err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts via ON CONFLICT, which both SQLite and PostgreSQL accept with
// the same spelling.
func (s *kvStorage) Set(ctx context.Context, key string, value string) error {
	query, args, err := s.builder.
		Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build set query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *kvStorage) Del(ctx context.Context, key string) (int64, error) {
	query, args, err := s.builder.
		Delete("kv").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build del query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("del %q: %w", key, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("del %q rows affected: %w", key, err)
	}
	return affected, nil
}

func (s *kvStorage) Keys(ctx context.Context, pattern string) ([]string, error) {
	builder := s.builder.Select("key").From("kv").OrderBy("key")

	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		builder = builder.Where(sq.Expr("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%"))
	} else {
		builder = builder.Where(sq.Eq{"key": pattern})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build keys query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w", pattern, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err = rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("keys %q scan: %w", pattern, err)
		}
		keys = append(keys, key)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("keys %q rows: %w", pattern, err)
	}

	return keys, nil
}

// escapeLike neutralises LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
