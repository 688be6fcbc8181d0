package correction

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/randalmurphal/focusflow/bucket"
)

// FileStore persists factors as one JSON file per bucket key. All access
// goes through a single lock, so reads see a consistent snapshot and
// same-key writes are linearizable.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex

	now func() time.Time
}

// FileStoreConfig holds configuration for file-backed factor storage.
type FileStoreConfig struct {
	// BaseDir is the storage root; factors live under BaseDir/buckets.
	BaseDir string
}

// NewFileStore creates a file-backed factor store.
func NewFileStore(config FileStoreConfig) (*FileStore, error) {
	bucketsDir := filepath.Join(config.BaseDir, "buckets")
	if err := os.MkdirAll(bucketsDir, 0o755); err != nil {
		return nil, err
	}

	return &FileStore{
		baseDir: config.BaseDir,
		now:     time.Now,
	}, nil
}

// keyFilename maps a bucket key to a filesystem-safe filename. "|" and "*"
// are the only characters in a key that need translation, and both map
// uniquely, so distinct keys never collide.
var keyFilename = strings.NewReplacer("|", "~", "*", "_")

func (s *FileStore) path(key bucket.Key) string {
	return filepath.Join(s.baseDir, "buckets", keyFilename.Replace(string(key))+".json")
}

// Fetch implements Store.
func (s *FileStore) Fetch(key bucket.Key) (*Factor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.read(key)
}

// read loads a factor without locking; callers hold at least a read lock.
func (s *FileStore) read(key bucket.Key) (*Factor, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var f Factor
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parse bucket %s: %w", key, err)
	}
	return &f, true, nil
}

// write saves a factor without locking; callers hold the write lock.
func (s *FileStore) write(f *Factor) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(f.Key), data, 0o644)
}

// GetOrCreate implements Store.
func (s *FileStore) GetOrCreate(key bucket.Key, priors bucket.Priors) (*Factor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok, err := s.read(key)
	if err != nil {
		return nil, err
	}
	if ok {
		return f, nil
	}

	f = NewFactor(key, priors)
	if err := s.write(f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddObservation implements Store. Load, fold, save under the write lock.
func (s *FileStore) AddObservation(key bucket.Key, ratio float64, priors bucket.Priors) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok, err := s.read(key)
	if err != nil {
		return err
	}
	if !ok {
		f = NewFactor(key, priors)
	}

	f.observe(ratio, s.now())
	return s.write(f)
}

// Reset implements Store.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucketsDir := filepath.Join(s.baseDir, "buckets")
	if err := os.RemoveAll(bucketsDir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(bucketsDir, 0o755)
}

// List returns every stored factor, unordered. Intended for history review
// and debugging, not the estimation path.
func (s *FileStore) List() ([]*Factor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucketsDir := filepath.Join(s.baseDir, "buckets")
	entries, err := os.ReadDir(bucketsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var factors []*Factor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(bucketsDir, entry.Name()))
		if err != nil {
			continue
		}
		var f Factor
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		factors = append(factors, &f)
	}
	return factors, nil
}

// BaseDir returns the storage root.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}
