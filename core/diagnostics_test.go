package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDiagnostics_RecordBugReportWritesYAML(t *testing.T) {
	dir := t.TempDir()
	d := NewDiagnostics(dir)

	path, err := d.RecordBugReport(BugReport{
		Seed:             42,
		Config:           SimulatorConfig{Seed: 42, EventCount: 5},
		ExpectedHash:     "aaaa",
		ActualHash:       "bbbb",
		OffendingPayload: []byte("Event 4"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "bug_"))
	assert.True(t, strings.HasSuffix(path, ".yaml"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded BugReport
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, uint64(42), loaded.Seed)
	assert.Equal(t, "aaaa", loaded.ExpectedHash)
	assert.Equal(t, "bbbb", loaded.ActualHash)
	assert.Equal(t, []byte("Event 4"), loaded.OffendingPayload)
	assert.NotEmpty(t, loaded.Timestamp)

	assert.Equal(t, []string{path}, d.BugReports())
}

func TestDiagnostics_RecordScenarioHash(t *testing.T) {
	d := NewDiagnostics(t.TempDir())
	d.RecordScenarioHash("scenario.yaml", "cafe")

	hash, ok := d.ScenarioHash("scenario.yaml")
	require.True(t, ok)
	assert.Equal(t, "cafe", hash)

	_, ok = d.ScenarioHash("other.yaml")
	assert.False(t, ok)
}

func TestDiagnostics_UnwritableDirSurfacesError(t *testing.T) {
	d := NewDiagnostics(filepath.Join(t.TempDir(), "reports", "\x00bad"))
	_, err := d.RecordBugReport(BugReport{})
	assert.Error(t, err)
}
