// Package cas implements the assembled image cache.
package cas

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageStore = (*Store)(nil)

// Store implements ports.ImageStore using a flat JSON file.
type Store struct {
	path   string
	logger ports.Logger
	mu     sync.RWMutex
	cache  map[string]domain.ImageInfo
}

// DefaultPath returns the store location inside the user cache directory.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "bootimage", "images.json")
}

// NewStore creates a new Store backed by the file at the given path.
// A file that does not parse is discarded with a warning.
func NewStore(path string, logger ports.Logger) (*Store, error) {
	s := &Store{
		path:   filepath.Clean(path),
		logger: logger,
		cache:  make(map[string]domain.ImageInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read image store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		s.cache = make(map[string]domain.ImageInfo)
		s.logger.Warn("ignoring unreadable image cache " + s.path + ": " + err.Error())
	}
	return nil
}

// saveLocked writes the cache to a temporary file and renames it over the store.
// The caller must hold s.mu for writing.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal image store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for image store")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary image store")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, "failed to write image store")
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, "failed to write image store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replace image store"), "path", s.path)
	}
	return nil
}

// Get retrieves the record for the given image path.
func (s *Store) Get(imagePath string) (*domain.ImageInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[filepath.Clean(imagePath)]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the record and persists the store.
func (s *Store) Put(info domain.ImageInfo) error {
	info.ImagePath = filepath.Clean(info.ImagePath)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[info.ImagePath] = info
	return s.saveLocked()
}

// Fingerprint hashes the file content at path.
func (s *Store) Fingerprint(path string) (uint64, error) {
	return Fingerprint(path)
}

// Fingerprint hashes the file content at path with xxhash.
func Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // path is a build artifact
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer func() { _ = f.Close() }()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hasher.Sum64(), nil
}
