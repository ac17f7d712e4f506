package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alfred/internal/domain"
	"alfred/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
task:
  name: billing api
  required_skills: [go, sql]
  estimated_hours: 20
candidates:
  - id: 00000000-0000-0000-0000-00000000000a
    name: Alice
    available_hours: 40
    workload_hours: 25
    skills:
      - {name: Go, level: expert}
      - {name: SQL, level: intermediate}
  - id: 00000000-0000-0000-0000-00000000000b
    name: Bob
    available_hours: 10
    skills:
      - {name: Python, level: advanced}
`

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRunRank(t *testing.T) {
	path := writeTemp(t, "scenario.yaml", scenarioYAML)

	var out bytes.Buffer
	require.NoError(t, runRank(&out, path, 5))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "OVERALL")
	// Alice: skill (100+50)/2 = 75, availability 100*15/20 = 75
	assert.Contains(t, lines[1], "Alice")
	assert.Contains(t, lines[1], "75.0")
	assert.Contains(t, lines[2], "Bob")
}

func TestRunRank_CustomWeights(t *testing.T) {
	path := writeTemp(t, "scenario.yaml", scenarioYAML+`
weights:
  skill: 0.7
  availability: 0.7
`)

	err := runRank(&bytes.Buffer{}, path, 5)
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRunRank_BadLevel(t *testing.T) {
	path := writeTemp(t, "scenario.yaml", `
task: {name: x}
candidates:
  - name: Carol
    skills: [{name: Go, level: wizard}]
`)
	err := runRank(&bytes.Buffer{}, path, 5)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoadRoster(t *testing.T) {
	path := writeTemp(t, "roster.json", `{"members":[
		{"external_id":"u-1","name":"Alice","email":"a@example.com","team":"core","available_hours":32,
		 "skills":[{"name":"Go","level":"advanced","years":4}]}
	]}`)

	roster, err := loadRoster(path)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "u-1", roster[0].ExternalID)
	assert.Equal(t, member.LevelAdvanced, roster[0].Skills[0].Level)
	require.NotNil(t, roster[0].Skills[0].Years)
	assert.InDelta(t, 4.0, *roster[0].Skills[0].Years, 1e-9)
}
