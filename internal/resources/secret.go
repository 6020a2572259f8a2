package resources

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SecretFile serves a secret read from a file and re-reads it whenever the
// file's directory changes. Mounted secrets are usually swapped through a
// symlink, so the directory is watched rather than the file.
type SecretFile struct {
	path string

	mu     sync.RWMutex
	secret string

	stopOnce sync.Once
	stop     chan<- struct{}
}

func NewSecretFile(path string) (*SecretFile, error) {
	s := &SecretFile{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}

	stop, err := watchDir(filepath.Dir(path), func() {
		if err := s.Load(); err != nil {
			log.Printf("failed to reload secret %s: %v\n", path, err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	s.stop = stop

	return s, nil
}

// Load re-reads the file. Surrounding whitespace is dropped, and a missing
// file yields an empty secret.
func (s *SecretFile) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read secret: %w", err)
	}

	secret := strings.TrimSpace(string(data))
	s.mu.Lock()
	s.secret = secret
	s.mu.Unlock()
	return nil
}

func (s *SecretFile) Secret() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.secret
}

func (s *SecretFile) Close() {
	s.stopOnce.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
	})
}
