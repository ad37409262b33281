// Package pgstore implements the store interfaces on PostgreSQL via pgx.
// Selected with `storage.backend: postgres` in the server config.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wordduel/internal/model"
	"wordduel/internal/store"
)

// DB wraps a pgx connection pool and implements both store interfaces.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// LoadAll returns every stored user.
func (d *DB) LoadAll(ctx context.Context) ([]model.User, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT username, password_hash, wins, total_points FROM users`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Wins, &u.TotalPoints); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Create inserts a new user, mapping a duplicate key onto store.ErrExists.
func (d *DB) Create(ctx context.Context, user model.User) error {
	tag, err := d.pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, wins, total_points)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING`,
		user.Username, user.PasswordHash, user.Wins, user.TotalPoints)
	if err != nil {
		return fmt.Errorf("creating user %q: %w", user.Username, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrExists
	}
	return nil
}

// UpdateStats overwrites wins and total points for the given user.
func (d *DB) UpdateStats(ctx context.Context, username string, wins, totalPoints uint32) error {
	tag, err := d.pool.Exec(ctx,
		`UPDATE users SET wins = $1, total_points = $2 WHERE username = $3`,
		wins, totalPoints, username)
	if err != nil {
		return fmt.Errorf("updating stats for %q: %w", username, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Append adds one history row for the given user.
func (d *DB) Append(ctx context.Context, username string, rec model.HistoryRecord) error {
	_, err := d.pool.Exec(ctx,
		`INSERT INTO history (username, played_at, opponent, result, r1_score, r2_score, r3_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		username, rec.When, rec.Opponent, rec.Result,
		rec.RoundScores[0], rec.RoundScores[1], rec.RoundScores[2])
	if err != nil {
		return fmt.Errorf("appending history for %q: %w", username, err)
	}
	return nil
}

// List returns all history rows for the user, oldest first.
func (d *DB) List(ctx context.Context, username string) ([]model.HistoryRecord, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT played_at, opponent, result, r1_score, r2_score, r3_score
		 FROM history WHERE username = $1 ORDER BY played_at, id`,
		username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []model.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("querying history for %q: %w", username, err)
	}
	defer rows.Close()

	records := []model.HistoryRecord{}
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(&rec.When, &rec.Opponent, &rec.Result,
			&rec.RoundScores[0], &rec.RoundScores[1], &rec.RoundScores[2]); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	return records, nil
}
