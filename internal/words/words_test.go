package words

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWordFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFiles(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	r1 := writeWordFile(t, dir, "round1.txt", "game\nword\npuzzle\n")
	r2 := writeWordFile(t, dir, "round2.txt", "computer\nkeyboard\n")
	r3 := writeWordFile(t, dir, "round3.txt", "programming\nlaboratory\n")
	return r1, r2, r3
}

func TestLoadUppercasesAndFilters(t *testing.T) {
	dir := t.TempDir()
	// "cat" too short for round 1, "dictionary" too long, blanks dropped.
	r1 := writeWordFile(t, dir, "round1.txt", "game\ncat\n  word  \n\ndictionary\n")
	r2 := writeWordFile(t, dir, "round2.txt", "computer\n")
	r3 := writeWordFile(t, dir, "round3.txt", "programming\n")

	c, err := Load(r1, r2, r3)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Count(1))
	assert.Equal(t, "GAME", c.First(1))
	assert.Equal(t, "COMPUTER", c.First(2))
	assert.Equal(t, "PROGRAMMING", c.First(3))
}

func TestLoadRejectsEmptyRound(t *testing.T) {
	dir := t.TempDir()
	r1 := writeWordFile(t, dir, "round1.txt", "game\n")
	// Nothing here fits round 2's 8..12 bounds.
	r2 := writeWordFile(t, dir, "round2.txt", "cat\n\n")
	r3 := writeWordFile(t, dir, "round3.txt", "programming\n")

	_, err := Load(r1, r2, r3)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	r1, r2, _ := testFiles(t)
	_, err := Load(r1, r2, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPickStaysInRound(t *testing.T) {
	r1, r2, r3 := testFiles(t)
	c, err := Load(r1, r2, r3)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		w := c.Pick(1, rng)
		assert.Contains(t, []string{"GAME", "WORD", "PUZZLE"}, w)
	}
	for i := 0; i < 50; i++ {
		w := c.Pick(3, rng)
		assert.GreaterOrEqual(t, len(w), 10)
		assert.LessOrEqual(t, len(w), 15)
	}
}

func TestReloadSwapsLists(t *testing.T) {
	r1, r2, r3 := testFiles(t)
	c, err := Load(r1, r2, r3)
	require.NoError(t, err)
	require.Equal(t, "GAME", c.First(1))

	require.NoError(t, os.WriteFile(r1, []byte("maze\n"), 0o644))
	require.NoError(t, c.Reload())
	assert.Equal(t, "MAZE", c.First(1))
	assert.Equal(t, 1, c.Count(1))
}

func TestReloadKeepsOldListsOnError(t *testing.T) {
	r1, r2, r3 := testFiles(t)
	c, err := Load(r1, r2, r3)
	require.NoError(t, err)

	// Breaking one file must not touch the lists already loaded.
	require.NoError(t, os.Remove(r2))
	assert.Error(t, c.Reload())
	assert.Equal(t, "GAME", c.First(1))
	assert.Equal(t, "COMPUTER", c.First(2))
}
