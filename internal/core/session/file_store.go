package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"golang.org/x/sys/unix"

	"github.com/adminkit/adminctl/internal/util"
)

// persistedTokens is the on-disk shape of the session file.
type persistedTokens struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// FileStore persists tokens to a JSON file so consecutive CLI invocations
// share one session. Reads and writes take an advisory flock on the file,
// keeping concurrent invocations from interleaving a refresh with a
// sign-out.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	tokens persistedTokens
}

// DefaultSessionPath returns the standard session file location under the
// user's home directory.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".adminctl/session.json"
	}
	return filepath.Join(home, ".adminctl", "session.json")
}

// NewFileStore opens (or creates the directory for) a session file and
// loads any tokens already persisted there.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultSessionPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the session file location, for watchers.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *FileStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}

func (s *FileStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = persistedTokens{AccessToken: access, RefreshToken: refresh}
	s.save()
}

func (s *FileStore) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.AccessToken = access
	s.save()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = persistedTokens{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		util.LogWarnf("Failed to remove session file %s: %v", s.path, err)
	}
}

// Reload re-reads the session file, picking up tokens written by another
// invocation. Used by the dashboard watcher.
func (s *FileStore) Reload() error {
	return s.load()
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	if err := flock(file, unix.LOCK_SH); err != nil {
		return err
	}
	defer funlock(file)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var tokens persistedTokens
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &tokens); err != nil {
			// A corrupt session file is treated as signed out
			util.LogWarnf("Discarding unreadable session file %s: %v", s.path, err)
			tokens = persistedTokens{}
		}
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
	return nil
}

// save writes the current tokens under an exclusive lock. Callers hold s.mu.
func (s *FileStore) save() {
	data, err := sonic.MarshalIndent(s.tokens, "", "  ")
	if err != nil {
		util.LogErrorf("Failed to encode session tokens: %v", err)
		return
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		util.LogErrorf("Failed to open session file %s: %v", s.path, err)
		return
	}
	defer file.Close()

	if err := flock(file, unix.LOCK_EX); err != nil {
		util.LogErrorf("Failed to lock session file %s: %v", s.path, err)
		return
	}
	defer funlock(file)

	if err := file.Truncate(0); err != nil {
		util.LogErrorf("Failed to truncate session file %s: %v", s.path, err)
		return
	}
	if _, err := file.Write(data); err != nil {
		util.LogErrorf("Failed to write session file %s: %v", s.path, err)
	}
}

func flock(file *os.File, how int) error {
	if err := unix.Flock(int(file.Fd()), how); err != nil {
		return fmt.Errorf("failed to lock session file: %w", err)
	}
	return nil
}

func funlock(file *os.File) {
	_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
