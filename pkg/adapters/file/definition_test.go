package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoYAML = `
initial: 1
states:
  - name: 4
    output: z
transitions:
  - {from: 1, input: 1, output: 1, to: 1}
  - {from: 1, input: 0, output: 1, to: 2}
  - {from: 2, input: 1, output: 1, to: 3}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefinition_YAML(t *testing.T) {
	snap, err := file.LoadDefinition(writeFile(t, "demo.yaml", demoYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", snap.Initial)
	require.Len(t, snap.States, 1)
	assert.Equal(t, domain.StateEntry{Name: "4", Output: "z", HasOutput: true}, snap.States[0])
	require.Len(t, snap.Transitions, 3)
	assert.Equal(t, domain.SnapshotTransition{From: "1", Input: "0", Output: "1", To: "2"}, snap.Transitions[1])

	a := domain.NewAutomaton()
	require.NoError(t, a.Restore(snap))
	assert.Equal(t, []string{"4", "1", "2", "3"}, a.States())
	res, err := a.ProcessWord("101")
	require.NoError(t, err)
	assert.Equal(t, "111", res.Output)
}

func TestLoadDefinition_JSON(t *testing.T) {
	doc := `{"initial": "q0", "transitions": [{"from": "q0", "input": "a", "output": "x", "to": "q0"}]}`
	snap, err := file.LoadDefinition(writeFile(t, "demo.json", doc))
	require.NoError(t, err)
	assert.Equal(t, "q0", snap.Initial)
	assert.Len(t, snap.Transitions, 1)
}

func TestLoadDefinition_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "initial: 1\nedges: []\n",
		"missing target": "transitions:\n  - {from: 1, input: 0}\n",
		"state name":     "states:\n  - output: x\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := file.LoadDefinition(writeFile(t, "bad.yaml", doc))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := file.LoadDefinition(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveDefinition_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	snap, err := file.LoadDefinition(writeFile(t, "demo.yaml", demoYAML))
	require.NoError(t, err)

	require.NoError(t, file.SaveDefinition(path, snap))
	again, err := file.LoadDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}
