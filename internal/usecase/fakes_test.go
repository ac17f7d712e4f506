package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/google/uuid"
)

type chatCall struct {
	Kind    string
	UserID  string
	Payload string
}

type fakeChat struct {
	calls     []chatCall
	notifyErr error
	adminErr  error
	roleErr   error
}

func (f *fakeChat) NotifyUser(_ context.Context, userID, message string) error {
	f.calls = append(f.calls, chatCall{Kind: "user", UserID: userID, Payload: message})
	return f.notifyErr
}

func (f *fakeChat) NotifyAdminChannel(_ context.Context, message string) error {
	f.calls = append(f.calls, chatCall{Kind: "admin", Payload: message})
	return f.adminErr
}

func (f *fakeChat) AssignRole(_ context.Context, userID, role string) error {
	f.calls = append(f.calls, chatCall{Kind: "role", UserID: userID, Payload: role})
	return f.roleErr
}

func (f *fakeChat) count(kind string) int {
	n := 0
	for _, c := range f.calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeChat) last(kind string) (chatCall, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Kind == kind {
			return f.calls[i], true
		}
	}
	return chatCall{}, false
}

type fakeDocs struct {
	created  []member.TeamMember
	err      error
	writeErr error
}

func (f *fakeDocs) CreateProfileDocument(_ context.Context, m member.TeamMember) (DocumentRef, error) {
	f.created = append(f.created, m)
	if f.err != nil {
		return DocumentRef{}, f.err
	}
	ref := DocumentRef{ID: "doc-" + m.ExternalID, URL: "https://docs.example.com/doc-" + m.ExternalID}
	return ref, f.writeErr
}

type rosterRow struct {
	Team   string
	Member member.TeamMember
	Doc    DocumentRef
}

type fakeRoster struct {
	rows []rosterRow
	err  error
}

func (f *fakeRoster) AppendRow(_ context.Context, team string, m member.TeamMember, doc DocumentRef) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rosterRow{Team: team, Member: m, Doc: doc})
	return nil
}

type fakeComposer struct {
	text string
	err  error
}

func (f fakeComposer) Welcome(context.Context, member.TeamMember) (string, error) {
	return f.text, f.err
}

type fakeWorkload struct {
	mu    sync.Mutex
	hours map[string]float64
	fail  map[string]bool
	calls int
}

func (f *fakeWorkload) WorkloadHours(_ context.Context, m member.TeamMember) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail[m.ExternalID] {
		return 0, domain.ExternalError("clickup", errors.New("timeout"))
	}
	return f.hours[m.ExternalID], nil
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	ttls    map[string]time.Duration
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.items[key] = b
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.items {
		if strings.HasPrefix(k, prefix) {
			delete(f.items, k)
		}
	}
	return nil
}

type fakeEvents struct {
	types []string
}

func (f *fakeEvents) Publish(eventType string, _ any) {
	f.types = append(f.types, eventType)
}

func floatPtr(v float64) *float64 { return &v }

func mustUUID(s string) uuid.UUID { return uuid.MustParse(s) }
