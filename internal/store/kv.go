package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// kvRepo implements KVRepo on the kv_entries table.
type kvRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := r.b.Select("value").
		From(entsql.Table(KVEntriesTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("set %q: value is not valid JSON", key)
	}
	query, args := r.b.Insert(KVEntriesTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args := r.b.Delete(KVEntriesTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	query, args := r.b.Delete(KVEntriesTable.Name).
		Where(entsql.HasPrefix("key", prefix)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete prefix %q: %w", prefix, err)
	}
	return res.RowsAffected()
}

func (r *kvRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	sel := r.b.Select("key").
		From(entsql.Table(KVEntriesTable.Name)).
		OrderBy("key")
	if prefix != "" {
		sel = sel.Where(entsql.HasPrefix("key", prefix))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// GetJSON decodes the value stored under key into v. It reports false,
// leaving v untouched, when the key is absent.
func GetJSON(ctx context.Context, kv KVRepo, key string, v any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KVRepo, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}
