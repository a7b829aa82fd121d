package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// FileStore keeps one JSON file per session, readable only by the owner.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens (and creates) a store in dir, or in [DefaultDir] when
// dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir returns $XDG_CONFIG_HOME/igitt/sessions, falling back to
// ~/.config/igitt/sessions.
func DefaultDir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "igitt", "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "igitt", "sessions"), nil
}

// Path returns the directory holding the session files.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) file(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", filepath.Base(path), err)
	}
	return &sess, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	path, err := s.file(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	sess, err := readSession(path)
	s.mu.RUnlock()
	switch {
	case os.IsNotExist(err):
		return nil, nil
	case err != nil:
		return nil, err
	case sess.IsExpired():
		return nil, s.Delete(ctx, id)
	}
	return sess, nil
}

// Set writes the session through a temporary file so a crash never leaves
// a truncated token behind.
func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	path, err := s.file(sess.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.file(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Cleanup removes expired and unreadable session files and reports how
// many it removed.
func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	now, removed := time.Now(), 0
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		sess, err := readSession(path)
		if err == nil && now.Before(sess.ExpiresAt) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

var _ Store = (*FileStore)(nil)

// CLIStore holds the single CLI login of one provider. The provider name is
// the session ID, so GitHub and GitLab logins live side by side.
type CLIStore struct {
	files    *FileStore
	provider hosting.Provider
}

// NewCLIStore opens the CLI store for provider in [DefaultDir].
func NewCLIStore(provider hosting.Provider) (*CLIStore, error) {
	return NewCLIStoreAt("", provider)
}

func NewCLIStoreAt(dir string, provider hosting.Provider) (*CLIStore, error) {
	files, err := NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	return &CLIStore{files: files, provider: provider}, nil
}

// GetSession returns nil when the provider has no live login.
func (c *CLIStore) GetSession(ctx context.Context) (*Session, error) {
	return c.files.Get(ctx, string(c.provider))
}

func (c *CLIStore) SaveSession(ctx context.Context, sess *Session) error {
	sess.ID = string(c.provider)
	return c.files.Set(ctx, sess)
}

func (c *CLIStore) DeleteSession(ctx context.Context) error {
	return c.files.Delete(ctx, string(c.provider))
}

// Path returns the session file of the provider.
func (c *CLIStore) Path() string {
	return filepath.Join(c.files.dir, string(c.provider)+".json")
}
