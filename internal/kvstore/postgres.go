package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps every key in the kv_records table created by
// database.EnsureSchema. Values are stored as JSONB, so only JSON documents
// can be written.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_records WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get: %w", err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("postgres set: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO NOTHING
	`, key, string(value))
	if err != nil {
		return false, fmt.Errorf("postgres setnx: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres setnx: %w", err)
	}
	return n == 1, nil
}

func (s *PostgresStore) CompareAndSwap(ctx context.Context, key, field, expected string, value []byte) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE kv_records SET
			value = $4::jsonb,
			updated_at = NOW()
		WHERE key = $1
			AND jsonb_typeof(value) = 'object'
			AND value->>$2 = $3
	`, key, field, expected, string(value))
	if err != nil {
		return false, fmt.Errorf("postgres compare and swap: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("postgres compare and swap: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	var kind string
	err = s.db.GetContext(ctx, &kind, `SELECT jsonb_typeof(value) FROM kv_records WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("postgres compare and swap: %w", err)
	}
	if kind != "object" {
		return false, ErrMalformed
	}
	return false, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
