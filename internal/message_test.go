package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndListOrdering(t *testing.T) {
	messageLog := NewMessageLog(nil)
	ctx := context.Background()

	first, err := messageLog.Append(ctx, "hi", "alice")
	require.NoError(t, err)
	second, err := messageLog.Append(ctx, "yo", "bob")
	require.NoError(t, err)

	listed := messageLog.List()
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	assert.Equal(t, "hi", listed[0].Content)
	assert.Equal(t, "alice", listed[0].Author)
	assert.False(t, listed[1].CreatedAt.Before(listed[0].CreatedAt))
}

func TestAppendStableTiesOnEqualTimestamps(t *testing.T) {
	messageLog := NewMessageLog(nil)
	frozen := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	messageLog.now = func() time.Time { return frozen }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := messageLog.Append(ctx, fmt.Sprintf("msg-%d", i), "alice")
		require.NoError(t, err)
	}

	listed := messageLog.List()
	require.Len(t, listed, 5)
	for i, msg := range listed {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.Content)
		assert.Equal(t, frozen, msg.CreatedAt)
	}
}

func TestAppendValidation(t *testing.T) {
	messageLog := NewMessageLog(nil)
	ctx := context.Background()

	cases := []struct {
		name    string
		content string
		author  string
		reason  string
	}{
		{name: "empty content", content: "", author: "alice", reason: "content must not be empty"},
		{name: "overlong content", content: strings.Repeat("x", MaxContentLength+1), author: "alice", reason: "content exceeds 500 characters"},
		{name: "empty author", content: "hello", author: "", reason: "author must not be empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := messageLog.Append(ctx, tc.content, tc.author)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.reason, verr.Reason)
		})
	}
	assert.Zero(t, messageLog.Len(), "rejected appends must not grow the log")
}

func TestAppendMaxLengthContentAccepted(t *testing.T) {
	messageLog := NewMessageLog(nil)
	_, err := messageLog.Append(context.Background(), strings.Repeat("x", MaxContentLength), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, messageLog.Len())
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	messageLog := NewMessageLog(nil)
	ctx := context.Background()
	const writers = 32

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := messageLog.Append(ctx, "hello", fmt.Sprintf("user-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	listed := messageLog.List()
	require.Len(t, listed, writers)

	ids := make(map[string]struct{}, writers)
	for i, msg := range listed {
		ids[msg.ID] = struct{}{}
		if i > 0 {
			assert.False(t, msg.CreatedAt.Before(listed[i-1].CreatedAt), "list must be non-decreasing by CreatedAt")
		}
	}
	assert.Len(t, ids, writers, "every append must keep a distinct id")
}

func TestListReturnsSnapshotCopy(t *testing.T) {
	messageLog := NewMessageLog(nil)
	ctx := context.Background()
	_, err := messageLog.Append(ctx, "original", "alice")
	require.NoError(t, err)

	snapshot := messageLog.List()
	snapshot[0].Content = "tampered"

	assert.Equal(t, "original", messageLog.List()[0].Content)
}

type flakyArchive struct {
	saved   []Message
	failing bool
}

func (a *flakyArchive) SaveMessage(_ context.Context, msg Message) error {
	if a.failing {
		return errors.New("disk on fire")
	}
	a.saved = append(a.saved, msg)
	return nil
}

func (a *flakyArchive) LoadMessages(_ context.Context) ([]Message, error) {
	if a.failing {
		return nil, errors.New("disk on fire")
	}
	return a.saved, nil
}

func TestAppendSurfacesArchiveFailureWithoutPartialState(t *testing.T) {
	archive := &flakyArchive{failing: true}
	messageLog := NewMessageLog(archive)

	_, err := messageLog.Append(context.Background(), "hello", "alice")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Zero(t, messageLog.Len(), "a failed durable write must not append in memory")
}

func TestHydrateReplaysArchivedHistory(t *testing.T) {
	archive := &flakyArchive{}
	seeded := NewMessageLog(archive)
	ctx := context.Background()
	_, err := seeded.Append(ctx, "hi", "alice")
	require.NoError(t, err)
	_, err = seeded.Append(ctx, "yo", "bob")
	require.NoError(t, err)

	restarted := NewMessageLog(archive)
	require.NoError(t, restarted.Hydrate(ctx))

	listed := restarted.List()
	require.Len(t, listed, 2)
	assert.Equal(t, "alice", listed[0].Author)
	assert.Equal(t, "bob", listed[1].Author)
}
