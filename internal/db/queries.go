package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type Preference struct {
	Profile   string
	Key       string
	Value     string
	UpdatedAt time.Time
}

const getPreference = `SELECT value FROM preferences WHERE profile = ? AND key = ?`

// GetPreference returns sql.ErrNoRows when the key is unset.
func (q *Queries) GetPreference(ctx context.Context, profile, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getPreference, profile, key).Scan(&value)
	return value, err
}

const upsertPreference = `
INSERT INTO preferences (profile, key, value, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (q *Queries) UpsertPreference(ctx context.Context, profile, key, value string) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, profile, key, value, time.Now().UTC())
	return err
}

const deletePreference = `DELETE FROM preferences WHERE profile = ? AND key = ?`

func (q *Queries) DeletePreference(ctx context.Context, profile, key string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePreference, profile, key)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listPreferences = `SELECT profile, key, value, updated_at FROM preferences WHERE profile = ? ORDER BY key`

func (q *Queries) ListPreferences(ctx context.Context, profile string) ([]Preference, error) {
	rows, err := q.db.QueryContext(ctx, listPreferences, profile)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Profile, &p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
