package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores one human-readable file per key below a base directory.
// A key like "history/2026/02/27" lives in base/history/2026/02/27.json.
type FileBackend struct {
	base string
}

// NewFileBackend creates the base directory if needed.
func NewFileBackend(base string) (*FileBackend, error) {
	if base == "" {
		return nil, fmt.Errorf("storage error: base directory is required")
	}
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, fmt.Errorf("storage error creating directories: %w", err)
	}
	return &FileBackend{base: base}, nil
}

// BaseDir returns the default data directory (~/.tpt).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tpt"), nil
}

// Dir returns the base directory.
func (b *FileBackend) Dir() string { return b.base }

// keyPath maps key to a file below base.
func (b *FileBackend) keyPath(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `\:`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return filepath.Join(b.base, filepath.FromSlash(key)+".json"), nil
}

// Get reads the file for key.
func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	path, err := b.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, nil
}

// Set atomically writes the file for key.
func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Delete removes the file for key.
func (b *FileBackend) Delete(_ context.Context, key string) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("storage error removing %s: %w", path, err)
	}
	return nil
}

// Quarantine backs up a corrupt file to <file>.corrupt.
func (b *FileBackend) Quarantine(_ context.Context, key string) error {
	path, err := b.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Rename(path, path+".corrupt"); err != nil {
		return fmt.Errorf("storage error backing up %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; files are not held open.
func (b *FileBackend) Close() error { return nil }
