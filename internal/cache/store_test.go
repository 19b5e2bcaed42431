package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), ttl, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestSetGetRoundtrip(t *testing.T) {
	s := newTestStore(t, time.Hour)

	require.NoError(t, s.Set("AAPL_historical", []float64{1, 2, 3}))

	var prices []float64
	ok := s.GetJSON("AAPL_historical", &prices)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, prices)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t, time.Hour)

	_, ok := s.Get("nothing")
	assert.False(t, ok)
}

func TestExpiredEntryIsMissEvenIfFilePresent(t *testing.T) {
	s := newTestStore(t, 10*time.Millisecond)

	require.NoError(t, s.Set("MSFT_historical", []float64{10}))
	time.Sleep(25 * time.Millisecond)

	_, ok := s.Get("MSFT_historical")
	assert.False(t, ok)

	// The file itself is still there until a sweep runs.
	_, err := os.Stat(s.path("MSFT_historical"))
	assert.NoError(t, err)
}

func TestCorruptEntryIsMiss(t *testing.T) {
	s := newTestStore(t, time.Hour)

	require.NoError(t, os.WriteFile(s.path("broken"), []byte("not json"), 0o644))

	_, ok := s.Get("broken")
	assert.False(t, ok)
}

func TestSweepExpiredKeepsFreshEntries(t *testing.T) {
	s := newTestStore(t, 50*time.Millisecond)

	require.NoError(t, s.Set("old", "stale"))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, s.Set("new", "fresh"))

	removed := s.SweepExpired()
	assert.Equal(t, 1, removed)

	var got string
	assert.True(t, s.GetJSON("new", &got))
	assert.Equal(t, "fresh", got)
	_, err := os.Stat(s.path("old"))
	assert.True(t, os.IsNotExist(err))
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t, time.Hour)

	require.NoError(t, s.Set("a", 1))
	require.NoError(t, s.Set("b", 2))

	assert.Equal(t, 2, s.ClearAll())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestArbitrarySymbolCharactersAreSafe(t *testing.T) {
	s := newTestStore(t, time.Hour)

	keys := []string{"BRK.B_historical", "../../etc/passwd", "weird sym/bol*?", "^GSPC_historical"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			require.NoError(t, s.Set(key, key))

			var got string
			require.True(t, s.GetJSON(key, &got))
			assert.Equal(t, key, got)

			// The file must land directly inside the cache dir: a single
			// file name, never a path that escapes it. The sanitized
			// prefix may legitimately contain dots (BRK.B, ../..).
			path := s.path(key)
			assert.Equal(t, s.dir, filepath.Dir(path))
			rel, err := filepath.Rel(s.dir, path)
			require.NoError(t, err)
			assert.NotContains(t, rel, string(filepath.Separator))
		})
	}
}

func TestDistinctKeysDoNotCollide(t *testing.T) {
	s := newTestStore(t, time.Hour)

	// Same sanitized prefix, different raw keys.
	require.NoError(t, s.Set("A/B", "one"))
	require.NoError(t, s.Set("A?B", "two"))

	var one, two string
	require.True(t, s.GetJSON("A/B", &one))
	require.True(t, s.GetJSON("A?B", &two))
	assert.Equal(t, "one", one)
	assert.Equal(t, "two", two)
}
