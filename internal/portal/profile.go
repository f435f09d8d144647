package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/api/dto"
)

// Profile is the logged-in staff member kept between runs.
type Profile struct {
	Staff     dto.StaffUserResponse `json:"staff"`
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expiresAt"`
}

// Expired reports whether the session behind the profile is over.
func (p Profile) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// ProfileStore keeps at most one profile.
type ProfileStore interface {
	Save(Profile) error
	// Load returns nil, nil when nothing usable is stored.
	Load() (*Profile, error)
	Clear() error
}

type memoryProfileStore struct {
	mu      sync.Mutex
	profile *Profile
	now     func() time.Time
}

// NewMemoryProfileStore keeps the profile for the life of the process.
func NewMemoryProfileStore() ProfileStore {
	return &memoryProfileStore{now: time.Now}
}

func (s *memoryProfileStore) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	return nil
}

func (s *memoryProfileStore) Load() (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil || s.profile.Expired(s.now()) {
		s.profile = nil
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *memoryProfileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
	return nil
}

type fileProfileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileProfileStore keeps the profile as JSON at path, readable only by the owner.
func NewFileProfileStore(path string) ProfileStore {
	return &fileProfileStore{path: path, now: time.Now}
}

func (s *fileProfileStore) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *fileProfileStore) Load() (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Expired(s.now()) {
		_ = os.Remove(s.path)
		return nil, nil
	}
	return &p, nil
}

func (s *fileProfileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}
