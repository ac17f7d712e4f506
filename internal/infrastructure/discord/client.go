// Package discord is a minimal REST client for the Discord bot API covering
// direct messages, channel messages and guild role grants.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"alfred/internal/config"
	"alfred/internal/logger"
	"alfred/internal/usecase"

	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://discord.com/api/v10"
	maxMessageLength = 2000
)

type Client struct {
	baseURL        string
	token          string
	guildID        string
	adminChannelID string
	roleIDs        map[string]string
	client         *http.Client
	logger         *zap.Logger
}

var _ usecase.NotificationChannel = (*Client)(nil)

func NewClient(cfg config.DiscordConfig, log *zap.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.BotToken)
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	roles := make(map[string]string, len(cfg.RoleIDs))
	for k, v := range cfg.RoleIDs {
		roles[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		token:          token,
		guildID:        strings.TrimSpace(cfg.GuildID),
		adminChannelID: strings.TrimSpace(cfg.AdminChannelID),
		roleIDs:        roles,
		client:         &http.Client{Timeout: 10 * time.Second},
		logger:         logger.OrNop(log).Named("discord"),
	}, nil
}

type createDMRequest struct {
	RecipientID string `json:"recipient_id"`
}

type channel struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Content string `json:"content"`
}

// NotifyUser opens (or reuses) the DM channel with userID and posts message.
func (c *Client) NotifyUser(ctx context.Context, userID string, message string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("discord user id is required")
	}

	var dm channel
	if err := c.do(ctx, http.MethodPost, "/users/@me/channels", createDMRequest{RecipientID: userID}, &dm); err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if dm.ID == "" {
		return errors.New("discord returned empty dm channel id")
	}
	return c.postMessage(ctx, dm.ID, message)
}

func (c *Client) NotifyAdminChannel(ctx context.Context, message string) error {
	if c.adminChannelID == "" {
		return errors.New("discord admin channel is not configured")
	}
	return c.postMessage(ctx, c.adminChannelID, message)
}

// AssignRole grants the guild role mapped to role. Role tags are matched
// case-insensitively.
func (c *Client) AssignRole(ctx context.Context, userID string, role string) error {
	if c.guildID == "" {
		return errors.New("discord guild is not configured")
	}
	roleID, ok := c.roleIDs[strings.ToLower(strings.TrimSpace(role))]
	if !ok || roleID == "" {
		return fmt.Errorf("no discord role mapped for %q", role)
	}
	path := fmt.Sprintf("/guilds/%s/members/%s/roles/%s",
		url.PathEscape(c.guildID), url.PathEscape(strings.TrimSpace(userID)), url.PathEscape(roleID))
	if err := c.do(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	c.logger.Info("discord role assigned", zap.String("user_id", userID), zap.String("role", role))
	return nil
}

func (c *Client) postMessage(ctx context.Context, channelID, message string) error {
	message = truncate(strings.TrimSpace(message), maxMessageLength)
	if message == "" {
		return errors.New("message must not be empty")
	}
	path := "/channels/" + url.PathEscape(channelID) + "/messages"
	if err := c.do(ctx, http.MethodPost, path, createMessageRequest{Content: message}, nil); err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if c == nil || c.client == nil {
		return errors.New("nil discord client")
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		c.logger.Warn("discord request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", bodyStr),
		)
		return fmt.Errorf("discord %s %s failed: status=%d body=%s", method, path, resp.StatusCode, bodyStr)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
