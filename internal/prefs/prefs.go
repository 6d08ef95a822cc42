// Package prefs is the durable per-profile key-value store the client keeps
// its UI preferences in.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/codr1/agentos-lite/internal/db"
)

// Keys written by the client.
const (
	KeyTheme            = "theme"
	KeyCustomThemes     = "customThemes"
	KeyAIProvider       = "aiProvider"
	KeyAIProviderAPIKey = "aiProviderApiKey"
)

const DefaultProfile = "default"

// Store reads and writes string values by key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// KV is one key/value pair for SetAll.
type KV struct {
	Key   string
	Value string
}

type batchSetter interface {
	SetAll(ctx context.Context, pairs []KV) error
}

// SetAll writes every pair, atomically when the store supports it.
func SetAll(ctx context.Context, store Store, pairs ...KV) error {
	if b, ok := store.(batchSetter); ok {
		return b.SetAll(ctx, pairs)
	}
	for _, p := range pairs {
		if err := store.Set(ctx, p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

// Memory is an in-process Store, used by tests and when persistence is disabled.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// SQLite stores preferences in the preferences table, namespaced by profile.
type SQLite struct {
	db      *db.DB
	profile string
}

func NewSQLite(database *db.DB, profile string) *SQLite {
	if profile == "" {
		profile = DefaultProfile
	}
	return &SQLite{db: database, profile: profile}
}

func (s *SQLite) Profile() string {
	return s.profile
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.db.Queries.GetPreference(ctx, s.profile, key)
	if err != nil {
		if db.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	if err := s.db.Queries.UpsertPreference(ctx, s.profile, key, value); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Queries.DeletePreference(ctx, s.profile, key); err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) SetAll(ctx context.Context, pairs []KV) error {
	return s.db.RunInTx(ctx, func(q *db.Queries) error {
		for _, p := range pairs {
			if err := q.UpsertPreference(ctx, s.profile, p.Key, p.Value); err != nil {
				return fmt.Errorf("set preference %q: %w", p.Key, err)
			}
		}
		return nil
	})
}
