// Package llm drafts member-facing messages with Gemini.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alfred/internal/domain/member"
	"alfred/internal/usecase"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// WelcomeComposer writes a short personalised welcome message.
type WelcomeComposer struct {
	models    contentGenerator
	modelName string
}

var _ usecase.MessageComposer = (*WelcomeComposer)(nil)

// NewWelcomeComposer creates a composer configured for the Gemini API backend.
func NewWelcomeComposer(ctx context.Context, apiKey, model string) (*WelcomeComposer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newWelcomeComposer(client.Models, model), nil
}

func newWelcomeComposer(models contentGenerator, model string) *WelcomeComposer {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &WelcomeComposer{models: models, modelName: model}
}

func (c *WelcomeComposer) Welcome(ctx context.Context, m member.TeamMember) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("welcome composer is not initialized")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}
	resp, err := c.models.GenerateContent(ctx, c.modelName, genai.Text(welcomePrompt(m)), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func (c *WelcomeComposer) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

const systemPrompt = "You write warm, concise welcome messages for new members of a software team. " +
	"Reply with the message only, at most four sentences, no markdown headings."

func welcomePrompt(m member.TeamMember) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a welcome direct message for %s.\n", m.Name)
	if m.Team != "" {
		fmt.Fprintf(&b, "Team: %s\n", m.Team)
	}
	if m.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", m.Role)
	}
	if len(m.Skills) > 0 {
		names := make([]string, 0, len(m.Skills))
		for _, s := range m.Skills {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(names, ", "))
	}
	if m.Bio != "" {
		fmt.Fprintf(&b, "About them: %s\n", m.Bio)
	}
	return b.String()
}
