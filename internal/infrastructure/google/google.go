// Package google creates member profile documents in Google Docs and keeps
// the team roster spreadsheet in Google Sheets.
package google

import (
	"strings"

	"alfred/internal/config"

	"google.golang.org/api/option"
)

// ClientOptions returns the credentials options for cfg followed by extra.
// Tests pass endpoint overrides through extra.
func ClientOptions(cfg config.GoogleConfig, extra ...option.ClientOption) []option.ClientOption {
	opts := make([]option.ClientOption, 0, len(extra)+1)
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	return append(opts, extra...)
}
