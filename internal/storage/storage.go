// Package storage persists values in a local key-value store.
//
// Backends move raw bytes. The Adapter on top serializes values as JSON and
// never reports failures to its callers: errors are logged and treated as a
// cache miss so the application keeps running on in-memory state.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
)

var (
	// ErrNotFound is returned by Backend.Get for keys that hold no value.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys a backend cannot address.
	ErrInvalidKey = errors.New("invalid key")
)

// Backend is a durable key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Quarantiner is implemented by backends that can move a corrupt value
// aside instead of discarding it.
type Quarantiner interface {
	Quarantine(ctx context.Context, key string) error
}

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open creates the backend named by kind. dir is the data directory of the
// file backend; sqlitePath defaults to dir/tpt.db.
func Open(kind, dir, sqlitePath string) (Backend, error) {
	switch kind {
	case KindFile, "":
		backend, err := NewFileBackend(dir)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case KindSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(dir, "tpt.db")
		}
		backend, err := OpenSQLite(sqlitePath)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case KindMemory:
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", kind)
}

// Adapter serializes values into a Backend.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter wraps backend. A nil logger discards log output.
func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{backend: backend, logger: logger}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Save stores value under key. Strings are stored verbatim, anything else
// as JSON.
func (a *Adapter) Save(ctx context.Context, key string, value any) {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			a.logger.Warn("error saving to storage", "key", key, "err", err)
			return
		}
		data = encoded
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		a.logger.Warn("error saving to storage", "key", key, "err", err)
	}
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) {
	if err := a.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		a.logger.Warn("error removing from storage", "key", key, "err", err)
	}
}

// Load decodes the value stored under key. It reports false when the key is
// missing, unreadable or holds data that does not decode into T. A value
// saved as a plain string loads back as-is when T is string.
func Load[T any](ctx context.Context, a *Adapter, key string) (T, bool) {
	var zero T
	data, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return zero, false
	}
	if err != nil {
		a.logger.Warn("error loading from storage", "key", key, "err", err)
		return zero, false
	}
	if len(data) == 0 {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		if s, ok := any(&value).(*string); ok {
			*s = string(data)
			return value, true
		}
		a.logger.Warn("corrupt value in storage", "key", key, "err", err)
		a.quarantine(ctx, key)
		return zero, false
	}
	return value, true
}

func (a *Adapter) quarantine(ctx context.Context, key string) {
	q, ok := a.backend.(Quarantiner)
	if !ok {
		return
	}
	if err := q.Quarantine(ctx, key); err != nil {
		a.logger.Warn("could not quarantine corrupt value", "key", key, "err", err)
	}
}
