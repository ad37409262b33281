// Package words loads and serves the three per-round word corpora.
// Round 1 uses words of length 4-7, round 2 length 8-12, round 3 length
// 10-15. Files hold one word per line; entries are uppercased and
// whitespace-stripped on load, out-of-bounds lengths are dropped.
package words

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

// Length bounds per round, inclusive.
var lengthBounds = [3][2]int{
	{4, 7},
	{8, 12},
	{10, 15},
}

// Corpus holds the filtered word lists for all three rounds.
// Safe for concurrent use; Reload swaps the lists atomically.
type Corpus struct {
	mu     sync.RWMutex
	paths  [3]string
	rounds [3][]string
}

// Load reads the three word files and returns a ready corpus.
func Load(round1, round2, round3 string) (*Corpus, error) {
	c := &Corpus{paths: [3]string{round1, round2, round3}}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads all three files. On any error the previous lists stay
// in place.
func (c *Corpus) Reload() error {
	var fresh [3][]string
	for i, path := range c.paths {
		list, err := loadFile(path, lengthBounds[i][0], lengthBounds[i][1])
		if err != nil {
			return fmt.Errorf("loading round %d words: %w", i+1, err)
		}
		if len(list) == 0 {
			return fmt.Errorf("round %d word file %s has no usable words", i+1, path)
		}
		fresh[i] = list
	}

	c.mu.Lock()
	c.rounds = fresh
	c.mu.Unlock()
	return nil
}

func loadFile(path string, minLen, maxLen int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		w := strings.ToUpper(strings.TrimSpace(line))
		if len(w) < minLen || len(w) > maxLen {
			continue
		}
		words = append(words, w)
	}
	return words, nil
}

// Pick returns a uniformly random word for the given round (1..3) using rng.
func (c *Corpus) Pick(round int, rng *rand.Rand) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := c.rounds[round-1]
	return list[rng.IntN(len(list))]
}

// First returns the first word of the given round's list. Used by test mode
// where deterministic word selection is required.
func (c *Corpus) First(round int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rounds[round-1][0]
}

// Count returns the number of usable words for the given round.
func (c *Corpus) Count(round int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rounds[round-1])
}

// Paths returns the three backing file paths.
func (c *Corpus) Paths() []string {
	return c.paths[:]
}
