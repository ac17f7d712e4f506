package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"alfred/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type fakeDiscord struct {
	mu       sync.Mutex
	requests []seenRequest
	status   int
}

func (f *fakeDiscord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(b, &body)

	f.mu.Lock()
	f.requests = append(f.requests, seenRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body})
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"message":"Missing Permissions","code":50013}`)
		return
	}
	switch {
	case r.URL.Path == "/users/@me/channels":
		_, _ = io.WriteString(w, `{"id":"dm-99","type":1}`)
	case strings.HasSuffix(r.URL.Path, "/messages"):
		_, _ = io.WriteString(w, `{"id":"msg-1"}`)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestClient(t *testing.T, fake *fakeDiscord) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := NewClient(config.DiscordConfig{
		BotToken:       "secret",
		GuildID:        "guild-1",
		AdminChannelID: "admin-7",
		RoleIDs:        map[string]string{"Engineer": "role-eng"},
		BaseURL:        srv.URL + "/",
	}, nil)
	require.NoError(t, err)
	return c
}

func TestClient_NotifyUser(t *testing.T) {
	fake := &fakeDiscord{}
	c := newTestClient(t, fake)

	require.NoError(t, c.NotifyUser(context.Background(), "u-42", "  hello  "))

	require.Len(t, fake.requests, 2)
	assert.Equal(t, "Bot secret", fake.requests[0].Auth)
	assert.Equal(t, "u-42", fake.requests[0].Body["recipient_id"])
	assert.Equal(t, "/channels/dm-99/messages", fake.requests[1].Path)
	assert.Equal(t, "hello", fake.requests[1].Body["content"])
}

func TestClient_NotifyAdminChannel(t *testing.T) {
	fake := &fakeDiscord{}
	c := newTestClient(t, fake)

	require.NoError(t, c.NotifyAdminChannel(context.Background(), "new request"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, "/channels/admin-7/messages", fake.requests[0].Path)
}

func TestClient_AssignRole(t *testing.T) {
	fake := &fakeDiscord{}
	c := newTestClient(t, fake)

	require.NoError(t, c.AssignRole(context.Background(), "u-42", "ENGINEER"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodPut, fake.requests[0].Method)
	assert.Equal(t, "/guilds/guild-1/members/u-42/roles/role-eng", fake.requests[0].Path)

	err := c.AssignRole(context.Background(), "u-42", "designer")
	require.ErrorContains(t, err, "no discord role mapped")
	assert.Len(t, fake.requests, 1)
}

func TestClient_APIErrorIsReturned(t *testing.T) {
	fake := &fakeDiscord{status: http.StatusForbidden}
	c := newTestClient(t, fake)

	err := c.NotifyAdminChannel(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
	assert.Contains(t, err.Error(), "Missing Permissions")
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(config.DiscordConfig{}, nil)
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", maxMessageLength+10)
	out := truncate(long, maxMessageLength)
	assert.Equal(t, maxMessageLength, utf8.RuneCountInString(out))
	assert.Equal(t, "short", truncate("short", maxMessageLength))
}
