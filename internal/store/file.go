package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// fileStore keeps each key in its own <key>.json file under dir.
// No cross-process locking; one process owns the directory.
type fileStore struct {
	mu     sync.Mutex
	dir    string
	logger zerolog.Logger
}

// NewFile creates a file-backed store rooted at dir, creating the directory if needed.
func NewFile(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	logger = logger.With().Str("store", "file").Logger()
	logger.Info().Str("dir", dir).Msg("file store opened")

	return &fileStore{dir: dir, logger: logger}, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *fileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(key)
}

func (s *fileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(key, value)
}

func (s *fileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	current, found, err := s.read(key)
	if err != nil {
		return err
	}
	next, err := fn(current, found)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	return s.write(key, next)
}

func (s *fileStore) Close() error { return nil }

func (s *fileStore) read(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to read store file")
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return b, true, nil
}

// write replaces the file atomically via a temp file and rename.
func (s *fileStore) write(key string, value []byte) error {
	p := s.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write store file")
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to replace store file")
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
