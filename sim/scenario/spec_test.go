package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/eventsim/internal/testutil"
)

func TestLoadScenario_Examples_Validate(t *testing.T) {
	for _, name := range []string{"handoff", "failure", "jitter"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadScenario(testutil.RepoPath(t, "examples", name+".yaml"))
			require.NoError(t, err)
			assert.NoError(t, spec.Validate())
		})
	}
}

func TestLoadScenario_ParsesFields(t *testing.T) {
	spec, err := LoadScenario(testutil.RepoPath(t, "examples", "failure.yaml"))
	require.NoError(t, err)

	assert.Equal(t, int64(10), spec.Start)
	assert.Equal(t, int64(7), spec.Seed)
	require.Len(t, spec.Events, 1)
	require.NotNil(t, spec.Events[0].At)
	assert.Equal(t, int64(12), *spec.Events[0].At)
	require.Len(t, spec.Processes, 4)
	assert.Equal(t, "worker", spec.Processes[1].Steps[0].Join)
	assert.True(t, spec.Processes[1].Steps[0].IgnoreFailure)
	assert.Equal(t, "disk full", spec.Processes[0].Steps[2].Fail)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseScenario_UnknownFieldRejected(t *testing.T) {
	_, err := ParseScenario([]byte("processes:\n  - name: a\n    stepz: []\n"))
	assert.Error(t, err)
}

func TestScenarioSpec_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no processes",
			yaml:    "events:\n  - name: a\n",
			wantErr: "at least one process required",
		},
		{
			name:    "duplicate name across events and processes",
			yaml:    "events:\n  - name: a\nprocesses:\n  - name: a\n",
			wantErr: `duplicate name "a"`,
		},
		{
			name:    "event before start",
			yaml:    "start: 5\nevents:\n  - name: e\n    at: 4\nprocesses:\n  - name: p\n",
			wantErr: "before start",
		},
		{
			name:    "two actions in one step",
			yaml:    "events:\n  - name: e\nprocesses:\n  - name: p\n    steps:\n      - sleep: 1\n        wait: e\n",
			wantErr: "exactly one action required, got 2",
		},
		{
			name:    "empty step",
			yaml:    "processes:\n  - name: p\n    steps:\n      - {}\n",
			wantErr: "exactly one action required, got 0",
		},
		{
			name:    "negative sleep",
			yaml:    "processes:\n  - name: p\n    steps:\n      - sleep: -1\n",
			wantErr: "sleep must be non-negative",
		},
		{
			name:    "jitter without sleep",
			yaml:    "events:\n  - name: e\nprocesses:\n  - name: p\n    steps:\n      - wait: e\n        jitter: 2\n",
			wantErr: "jitter is only valid with sleep",
		},
		{
			name:    "unknown wait target",
			yaml:    "processes:\n  - name: p\n    steps:\n      - wait: nope\n",
			wantErr: `unknown event or process "nope"`,
		},
		{
			name:    "self wait",
			yaml:    "processes:\n  - name: p\n    steps:\n      - any_of: [p]\n",
			wantErr: "cannot wait on itself",
		},
		{
			name:    "join an event",
			yaml:    "events:\n  - name: e\nprocesses:\n  - name: p\n    steps:\n      - join: e\n",
			wantErr: `unknown process "e"`,
		},
		{
			name:    "trigger a process",
			yaml:    "processes:\n  - name: p\n  - name: q\n    steps:\n      - trigger: p\n",
			wantErr: `unknown event "p"`,
		},
		{
			name:    "ignore_failure on sleep",
			yaml:    "processes:\n  - name: p\n    steps:\n      - sleep: 1\n        ignore_failure: true\n",
			wantErr: "ignore_failure is only valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseScenario([]byte(tt.yaml))
			require.NoError(t, err)
			err = spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScenarioSpec_Validate_StepErrorNamesProcessAndIndex(t *testing.T) {
	spec, err := ParseScenario([]byte("processes:\n  - name: p\n    steps:\n      - sleep: 1\n      - wait: nope\n"))
	require.NoError(t, err)

	err = spec.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `process "p" step[1]`)
}
