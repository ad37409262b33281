// Package filestore implements the store interfaces on flat text files.
// Users live in one file, one `username:password_hash:wins:total_points`
// line per account. History lives in one file per user. All rewrites go
// through a temp file plus rename so a crash never leaves a torn line.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"wordduel/internal/model"
	"wordduel/internal/store"
)

// UserStore keeps accounts in a single colon-separated text file.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore returns a file-backed user store at path. The file is
// created on first write; a missing file reads as zero users.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// LoadAll reads and parses every user line.
func (s *UserStore) LoadAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// Create appends the user, rejecting duplicates.
func (s *UserStore) Create(_ context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return store.ErrExists
		}
	}
	users = append(users, user)
	return s.writeAll(users)
}

// UpdateStats rewrites the file with the new wins/points for username.
func (s *UserStore) UpdateStats(_ context.Context, username string, wins, totalPoints uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username == username {
			users[i].Wins = wins
			users[i].TotalPoints = totalPoints
			return s.writeAll(users)
		}
	}
	return store.ErrNotFound
}

func (s *UserStore) readAll() ([]model.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading user file %s: %w", s.path, err)
	}

	var users []model.User
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		u, err := parseUserLine(line)
		if err != nil {
			return nil, fmt.Errorf("user file %s line %d: %w", s.path, lineNo+1, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func parseUserLine(line string) (model.User, error) {
	parts := strings.Split(line, ":")
	if len(parts) != 4 {
		return model.User{}, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	wins, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return model.User{}, fmt.Errorf("parsing wins: %w", err)
	}
	points, err := strconv.ParseUint(parts[3], 10, 32)
	if err != nil {
		return model.User{}, fmt.Errorf("parsing points: %w", err)
	}
	return model.User{
		Username:     parts[0],
		PasswordHash: parts[1],
		Wins:         uint32(wins),
		TotalPoints:  uint32(points),
	}, nil
}

func (s *UserStore) writeAll(users []model.User) error {
	var b strings.Builder
	for _, u := range users {
		fmt.Fprintf(&b, "%s:%s:%d:%d\n", u.Username, u.PasswordHash, u.Wins, u.TotalPoints)
	}
	return atomicWrite(s.path, []byte(b.String()))
}

// atomicWrite writes data to path via a temp file plus rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
