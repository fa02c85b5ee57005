package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/document"
)

// DocumentStore keeps one JSON file per document under a data directory.
// Compare-and-swap is enforced with a per-document lock, so it only protects
// writers inside this process.
type DocumentStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ document.Store = (*DocumentStore)(nil)

func NewDocumentStore(dir string) (*DocumentStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	return &DocumentStore{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Read does not take the document lock. Writers replace the file with a rename,
// so a reader sees either the previous or the new body.
func (s *DocumentStore) Read(_ context.Context, name string) ([]byte, string, error) {
	return s.read(name)
}

func (s *DocumentStore) Write(_ context.Context, name string, body []byte, expectedToken string) (string, error) {
	lock := s.lock(name)
	lock.Lock()
	defer lock.Unlock()

	_, current, err := s.read(name)
	if err != nil {
		return "", err
	}
	if current != expectedToken {
		return "", document.Conflict(name, expectedToken, current)
	}

	target := s.path(name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("replace %s: %w", target, err)
	}

	return document.ETag(body), nil
}

// Ping checks that the data directory is still a writable directory.
func (s *DocumentStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	probe, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}
	_ = probe.Close()
	return os.Remove(probe.Name())
}

func (s *DocumentStore) read(name string) ([]byte, string, error) {
	body, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	return body, document.ETag(body), nil
}

func (s *DocumentStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *DocumentStore) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}
