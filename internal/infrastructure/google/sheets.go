package google

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"alfred/internal/domain/member"
	"alfred/internal/usecase"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const defaultRosterTab = "Roster"

// Roster appends approved members to one tab per team.
type Roster struct {
	svc           *sheets.Service
	spreadsheetID string
	now           func() time.Time
}

var _ usecase.RosterSheet = (*Roster)(nil)

func NewRoster(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Roster, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("roster spreadsheet id is required")
	}
	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Roster{svc: svc, spreadsheetID: spreadsheetID, now: time.Now}, nil
}

func (r *Roster) AppendRow(ctx context.Context, team string, m member.TeamMember, doc usecase.DocumentRef) error {
	if r == nil || r.svc == nil {
		return errors.New("sheets client is not initialized")
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{RosterRow(m, doc, r.now())}}
	_, err := r.svc.Spreadsheets.Values.Append(r.spreadsheetID, TabRange(team), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append roster row: %w", err)
	}
	return nil
}

// TabRange addresses the first cell of the team's tab. Quotes inside the tab
// name are doubled as A1 notation requires.
func TabRange(team string) string {
	tab := strings.TrimSpace(team)
	if tab == "" {
		tab = defaultRosterTab
	}
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!A1"
}

func RosterRow(m member.TeamMember, doc usecase.DocumentRef, joined time.Time) []interface{} {
	skills := make([]string, 0, len(m.Skills))
	for _, s := range m.Skills {
		skills = append(skills, s.Name+" ("+s.Level.String()+")")
	}
	return []interface{}{
		m.Name,
		m.Email,
		m.Role,
		m.Team,
		m.Timezone,
		formatHours(m.AvailableHours),
		strings.Join(skills, ", "),
		doc.URL,
		joined.UTC().Format("2006-01-02"),
		m.ExternalID,
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
