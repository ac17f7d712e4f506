// Package clickup derives member workload from open ClickUp tasks.
package clickup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"alfred/internal/config"
	"alfred/internal/domain/member"
	"alfred/internal/logger"
	"alfred/internal/usecase"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL = "https://api.clickup.com/api/v2"
	maxPages       = 20
	msPerHour      = float64(time.Hour / time.Millisecond)

	// rosterMaxAge bounds how often an unknown email triggers a refetch.
	rosterMaxAge = 5 * time.Minute
)

// Workload sums the time estimates of a member's open tasks.
type Workload struct {
	baseURL string
	token   string
	teamID  string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time

	fetch     singleflight.Group
	mu        sync.RWMutex
	userIDs   map[string]string
	fetchedAt time.Time
}

var _ usecase.WorkloadProvider = (*Workload)(nil)

func NewWorkload(cfg config.ClickUpConfig, log *zap.Logger) (*Workload, error) {
	token := strings.TrimSpace(cfg.APIToken)
	if token == "" {
		return nil, errors.New("clickup api token is required")
	}
	teamID := strings.TrimSpace(cfg.TeamID)
	if teamID == "" {
		return nil, errors.New("clickup team id is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Workload{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		teamID:  teamID,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger.OrNop(log).Named("clickup"),
		now:     time.Now,
	}, nil
}

type teamsResponse struct {
	Teams []struct {
		ID      string `json:"id"`
		Members []struct {
			User struct {
				ID    json.Number `json:"id"`
				Email string      `json:"email"`
			} `json:"user"`
		} `json:"members"`
	} `json:"teams"`
}

type tasksResponse struct {
	Tasks []struct {
		ID           string       `json:"id"`
		TimeEstimate *json.Number `json:"time_estimate"`
	} `json:"tasks"`
	LastPage bool `json:"last_page"`
}

func (w *Workload) WorkloadHours(ctx context.Context, m member.TeamMember) (float64, error) {
	userID, err := w.userID(ctx, m.Email)
	if err != nil {
		return 0, err
	}

	var totalMS float64
	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Add("assignees[]", userID)
		q.Set("include_closed", "false")
		q.Set("subtasks", "true")
		q.Set("page", strconv.Itoa(page))

		var resp tasksResponse
		if err := w.get(ctx, "/team/"+url.PathEscape(w.teamID)+"/task", q, &resp); err != nil {
			return 0, err
		}
		for _, t := range resp.Tasks {
			if t.TimeEstimate == nil {
				continue
			}
			ms, err := t.TimeEstimate.Float64()
			if err != nil || ms < 0 {
				continue
			}
			totalMS += ms
		}
		if resp.LastPage || len(resp.Tasks) == 0 {
			break
		}
	}

	hours := totalMS / msPerHour
	w.logger.Debug("workload computed", zap.String("email", m.Email), zap.Float64("hours", hours))
	return hours, nil
}

// userID resolves a ClickUp user by email. The team roster is cached and
// refetched for an unknown email only once it is older than rosterMaxAge.
func (w *Workload) userID(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.New("member has no email to match in clickup")
	}

	id, ok, fresh := w.lookup(email)
	if ok {
		return id, nil
	}
	if !fresh {
		if err := w.refreshRoster(ctx); err != nil {
			return "", err
		}
		if id, ok, _ = w.lookup(email); ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("no clickup user with email %s in team %s", email, w.teamID)
}

func (w *Workload) lookup(email string) (id string, ok, fresh bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok = w.userIDs[email]
	fresh = !w.fetchedAt.IsZero() && w.now().Sub(w.fetchedAt) < rosterMaxAge
	return id, ok, fresh
}

// refreshRoster fetches the team roster without holding w.mu. Concurrent
// callers share one request, which outlives a caller that gives up early.
func (w *Workload) refreshRoster(ctx context.Context) error {
	ch := w.fetch.DoChan("team", func() (any, error) {
		var resp teamsResponse
		if err := w.get(context.WithoutCancel(ctx), "/team", nil, &resp); err != nil {
			return nil, err
		}
		ids := make(map[string]string)
		for _, team := range resp.Teams {
			if team.ID != w.teamID {
				continue
			}
			for _, tm := range team.Members {
				if e := strings.ToLower(strings.TrimSpace(tm.User.Email)); e != "" {
					ids[e] = tm.User.ID.String()
				}
			}
		}

		w.mu.Lock()
		w.userIDs, w.fetchedAt = ids, w.now()
		w.mu.Unlock()
		w.logger.Debug("clickup roster refreshed", zap.Int("users", len(ids)))
		return nil, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (w *Workload) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := w.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", w.token)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("clickup GET %s failed: status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(rb)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
