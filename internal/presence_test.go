package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testActiveWindow  = 3 * time.Second
	testReapWindow    = 5 * time.Second
	testSweepInterval = 10 * time.Second
)

// stoppedRegistry builds a registry whose sweep goroutine is already shut
// down, so tests can swap the clock and drive reaps deterministically.
func stoppedRegistry(t *testing.T, now func() time.Time) *PresenceRegistry {
	t.Helper()
	registry := NewPresenceRegistry(testActiveWindow, testReapWindow, testSweepInterval)
	registry.Close()
	registry.now = now
	return registry
}

func TestTouchDeduplicatesPerAuthor(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	registry := stoppedRegistry(t, func() time.Time { return current })

	first, err := registry.Touch("alice")
	require.NoError(t, err)
	current = current.Add(500 * time.Millisecond)
	second, err := registry.Touch("alice")
	require.NoError(t, err)

	assert.True(t, second.LastSeenAt.After(first.LastSeenAt))
	assert.Equal(t, []string{"alice"}, registry.ActiveAuthors(""))
}

func TestTouchRejectsEmptyAuthor(t *testing.T) {
	registry := stoppedRegistry(t, time.Now)
	for _, author := range []string{"", "   "} {
		_, err := registry.Touch(author)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	}
	assert.Empty(t, registry.ActiveAuthors(""))
}

func TestActiveAuthorsSelfExclusion(t *testing.T) {
	registry := stoppedRegistry(t, time.Now)
	_, err := registry.Touch("alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, registry.ActiveAuthors("bob"))
	assert.Empty(t, registry.ActiveAuthors("alice"), "an author never sees their own indicator")
}

func TestActiveAuthorsExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	registry := stoppedRegistry(t, func() time.Time { return current })

	_, err := registry.Touch("alice")
	require.NoError(t, err)

	current = current.Add(testActiveWindow + 100*time.Millisecond)
	assert.Empty(t, registry.ActiveAuthors(""), "entries past the active window are invisible")
	assert.True(t, registry.contains("alice"), "but not yet physically removed")
}

func TestReapRemovesStaleEntriesAndTouchRecreates(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	registry := stoppedRegistry(t, func() time.Time { return current })

	_, err := registry.Touch("alice")
	require.NoError(t, err)

	current = current.Add(testReapWindow + time.Second)
	registry.reap(current)
	assert.False(t, registry.contains("alice"))

	// reap is idempotent
	registry.reap(current)
	assert.False(t, registry.contains("alice"))

	_, err = registry.Touch("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, registry.ActiveAuthors(""))
}

func TestReapKeepsFreshlyTouchedEntries(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	registry := stoppedRegistry(t, func() time.Time { return current })

	_, err := registry.Touch("alice")
	require.NoError(t, err)
	current = current.Add(testReapWindow)
	_, err = registry.Touch("alice")
	require.NoError(t, err)

	// the sweep reads the freshest LastSeenAt, so the refreshed entry survives
	registry.reap(current)
	assert.True(t, registry.contains("alice"))
}

func TestSweepLoopReapsInBackground(t *testing.T) {
	registry := NewPresenceRegistry(20*time.Millisecond, 40*time.Millisecond, 10*time.Millisecond)
	defer registry.Close()

	_, err := registry.Touch("alice")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return !registry.contains("alice")
	}, time.Second, 10*time.Millisecond, "the background sweep should reap the stale entry")
}

func TestCloseIsIdempotent(t *testing.T) {
	registry := NewPresenceRegistry(testActiveWindow, testReapWindow, testSweepInterval)
	registry.Close()
	registry.Close()
}
