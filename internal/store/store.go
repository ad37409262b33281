// Package store defines the persistence interfaces consumed by the game
// services. Two backends exist: flat-text files (filestore) and PostgreSQL
// (pgstore). The services never hold a lock across a store call.
package store

import (
	"context"
	"errors"

	"wordduel/internal/model"
)

var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrExists means a record with the same key already exists.
	ErrExists = errors.New("store: already exists")
)

// UserStore persists account records.
type UserStore interface {
	// LoadAll returns every stored user. Called once at startup to warm the
	// auth service cache.
	LoadAll(ctx context.Context) ([]model.User, error)

	// Create inserts a new user. Returns ErrExists if the username is taken.
	Create(ctx context.Context, user model.User) error

	// UpdateStats overwrites wins and total points for the given user.
	UpdateStats(ctx context.Context, username string, wins, totalPoints uint32) error
}

// HistoryStore persists per-user match history rows.
type HistoryStore interface {
	// Append adds one finished-match row for the given user.
	Append(ctx context.Context, username string, rec model.HistoryRecord) error

	// List returns all history rows for the given user, oldest first.
	// A user with no history yields an empty slice, not an error.
	List(ctx context.Context, username string) ([]model.HistoryRecord, error)
}
