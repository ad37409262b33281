package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"wordduel/internal/model"
)

// historyTimeLayout matches the on-disk row format
// `YYYY-MM-DD HH:MM:SS:opponent:result:r1:r2:r3`.
const historyTimeLayout = "2006-01-02 15:04:05"

// HistoryStore keeps one text file per user under dir.
type HistoryStore struct {
	mu  sync.Mutex
	dir string
}

// NewHistoryStore returns a file-backed history store rooted at dir.
func NewHistoryStore(dir string) *HistoryStore {
	return &HistoryStore{dir: dir}
}

func (s *HistoryStore) userPath(username string) string {
	return filepath.Join(s.dir, username+".txt")
}

// Append adds one row to the user's history file. The whole file is
// rewritten atomically; history files stay small enough that the
// simplicity wins over append mode's torn-line hazard.
func (s *HistoryStore) Append(_ context.Context, username string, rec model.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll(username)
	if err != nil {
		return err
	}
	records = append(records, rec)

	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s:%s:%s:%d:%d:%d\n",
			r.When.Format(historyTimeLayout), r.Opponent, r.Result,
			r.RoundScores[0], r.RoundScores[1], r.RoundScores[2])
	}
	return atomicWrite(s.userPath(username), []byte(b.String()))
}

// List returns all rows for the user, oldest first.
func (s *HistoryStore) List(_ context.Context, username string) ([]model.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(username)
}

func (s *HistoryStore) readAll(username string) ([]model.HistoryRecord, error) {
	data, err := os.ReadFile(s.userPath(username))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("reading history for %s: %w", username, err)
	}

	records := []model.HistoryRecord{}
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := parseHistoryLine(line)
		if err != nil {
			return nil, fmt.Errorf("history for %s line %d: %w", username, lineNo+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseHistoryLine(line string) (model.HistoryRecord, error) {
	// The datetime itself contains two colons, so split from the right:
	// the last 5 fields are opponent, result, r1, r2, r3.
	parts := strings.Split(line, ":")
	if len(parts) < 8 {
		return model.HistoryRecord{}, fmt.Errorf("expected 8 fields, got %d", len(parts))
	}
	n := len(parts)
	when, err := time.ParseInLocation(historyTimeLayout, strings.Join(parts[:n-5], ":"), time.Local)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("parsing datetime: %w", err)
	}

	var scores [3]uint32
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(parts[n-3+i], 10, 32)
		if err != nil {
			return model.HistoryRecord{}, fmt.Errorf("parsing round %d score: %w", i+1, err)
		}
		scores[i] = uint32(v)
	}

	return model.HistoryRecord{
		When:        when,
		Opponent:    parts[n-5],
		Result:      parts[n-4],
		RoundScores: scores,
	}, nil
}
