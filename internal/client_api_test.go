package internal

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffNewMessages(t *testing.T) {
	snapshot := []Message{
		{ID: "1", Content: "a"},
		{ID: "2", Content: "b"},
		{ID: "3", Content: "c"},
	}

	assert.Len(t, diffNewMessages(0, snapshot), 3)
	assert.Equal(t, "3", diffNewMessages(2, snapshot)[0].ID)
	assert.Nil(t, diffNewMessages(3, snapshot))
	assert.Nil(t, diffNewMessages(5, snapshot), "a shrunken view yields nothing new by count")
	assert.Len(t, diffNewMessages(-1, snapshot), 3)
	assert.Nil(t, diffNewMessages(0, nil))
}

func TestNormalizeBaseURL(t *testing.T) {
	base, err := normalizeBaseURL("http://example.com:8080/some/path?x=1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:8080", base)

	_, err = normalizeBaseURL("ws://example.com")
	assert.Error(t, err)
}

func TestClientAPIAgainstLiveServer(t *testing.T) {
	presence := NewPresenceRegistry(3*time.Second, 5*time.Second, 10*time.Second)
	t.Cleanup(presence.Close)
	server := NewServer(NewMessageLog(nil), presence, zerolog.Nop())

	httpServer := httptest.NewServer(server.Routes())
	t.Cleanup(httpServer.Close)
	baseURL := httpServer.URL

	// first poll sees an empty room
	snapshot, err := apiFetchMessages(baseURL)
	require.NoError(t, err)
	assert.Empty(t, snapshot)

	created, err := apiSendMessage(baseURL, "hi", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = apiSendMessage(baseURL, "yo", "bob")
	require.NoError(t, err)

	snapshot, err = apiFetchMessages(baseURL)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	// a client that had seen one message only picks up the second
	fresh := diffNewMessages(1, snapshot)
	require.Len(t, fresh, 1)
	assert.Equal(t, "bob", fresh[0].Author)

	// typing round trip with self-exclusion
	require.NoError(t, apiTouchTyping(baseURL, "alice"))
	typing, err := apiTypingStatus(baseURL, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, typing)

	typing, err = apiTypingStatus(baseURL, "alice")
	require.NoError(t, err)
	assert.Empty(t, typing)
}

func TestClientAPISurfacesValidationReason(t *testing.T) {
	presence := NewPresenceRegistry(3*time.Second, 5*time.Second, 10*time.Second)
	t.Cleanup(presence.Close)
	server := NewServer(NewMessageLog(nil), presence, zerolog.Nop())

	httpServer := httptest.NewServer(server.Routes())
	t.Cleanup(httpServer.Close)

	_, err := apiSendMessage(httpServer.URL, "", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content must not be empty")
}
