package images

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is where image objects live. Keys use forward slashes.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// ListDirs returns the names of the immediate "directories" under prefix.
	ListDirs(ctx context.Context, prefix string) ([]string, error)
}

// LocalStore keeps objects on the local filesystem under Root.
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return ioErr("mkdir", p, err)
	}
	return ioErr("write", p, os.WriteFile(p, data, 0o644))
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p := s.path(key)
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ioErr("delete", p, err)
	}
	return nil
}

func (s *LocalStore) DeletePrefix(_ context.Context, prefix string) error {
	p := s.path(prefix)
	return ioErr("delete", p, os.RemoveAll(p))
}

func (s *LocalStore) ListDirs(_ context.Context, prefix string) ([]string, error) {
	p := s.path(prefix)
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, ioErr("list", p, err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
