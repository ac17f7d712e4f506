package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alfred/internal/domain/member"
	"alfred/internal/usecase"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"
)

const documentURLFormat = "https://docs.google.com/document/d/%s/edit"

type Docs struct {
	svc *docs.Service
}

var _ usecase.DocGenerator = (*Docs)(nil)

func NewDocs(ctx context.Context, opts ...option.ClientOption) (*Docs, error) {
	opts = append([]option.ClientOption{option.WithScopes(docs.DocumentsScope)}, opts...)
	svc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return &Docs{svc: svc}, nil
}

// CreateProfileDocument creates a plain-text profile document for m.
func (d *Docs) CreateProfileDocument(ctx context.Context, m member.TeamMember) (usecase.DocumentRef, error) {
	if d == nil || d.svc == nil {
		return usecase.DocumentRef{}, errors.New("docs client is not initialized")
	}

	doc, err := d.svc.Documents.Create(&docs.Document{Title: "Team profile: " + m.Name}).Context(ctx).Do()
	if err != nil {
		return usecase.DocumentRef{}, fmt.Errorf("create document: %w", err)
	}
	if doc.DocumentId == "" {
		return usecase.DocumentRef{}, errors.New("docs api returned empty document id")
	}

	_, err = d.svc.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: 1},
				Text:     ProfileText(m),
			},
		}},
	}).Context(ctx).Do()
	ref := usecase.DocumentRef{ID: doc.DocumentId, URL: fmt.Sprintf(documentURLFormat, doc.DocumentId)}
	if err != nil {
		return ref, fmt.Errorf("write document %s: %w", doc.DocumentId, err)
	}
	return ref, nil
}

func ProfileText(m member.TeamMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", m.Name)
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Email", m.Email)
	line("Team", m.Team)
	line("Role", m.Role)
	line("Timezone", m.Timezone)
	fmt.Fprintf(&b, "Weekly availability: %s hours\n", formatHours(m.AvailableHours))

	if len(m.Skills) > 0 {
		b.WriteString("\nSkills\n")
		for _, s := range m.Skills {
			if s.Years != nil {
				fmt.Fprintf(&b, "- %s (%s, %s years)\n", s.Name, s.Level, formatHours(*s.Years))
				continue
			}
			fmt.Fprintf(&b, "- %s (%s)\n", s.Name, s.Level)
		}
	}
	if m.Bio != "" {
		fmt.Fprintf(&b, "\nAbout\n%s\n", m.Bio)
	}
	return b.String()
}
