package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// BugReport is the YAML artifact written when a run's hash diverges from
// its expectation. It carries everything needed to reproduce: the seed and
// configuration, both hashes, and the last payload in flight.
type BugReport struct {
	Timestamp        string          `yaml:"timestamp"`
	Seed             uint64          `yaml:"seed"`
	Config           SimulatorConfig `yaml:"config"`
	ExpectedHash     string          `yaml:"expected_hash"`
	ActualHash       string          `yaml:"actual_hash"`
	OffendingPayload []byte          `yaml:"offending_payload"`
}

// Diagnostics collects determinism artifacts for a run: bug reports on
// hash mismatch, and the hash each scenario file produced (so successful
// runs leave a record too, useful when comparing across a fuzz session).
type Diagnostics struct {
	mu             sync.Mutex
	dir            string
	bugReports     []string
	scenarioHashes map[string]string
}

// NewDiagnostics returns a collector writing bug reports under dir
// (created on first report).
func NewDiagnostics(dir string) *Diagnostics {
	return &Diagnostics{
		dir:            dir,
		scenarioHashes: make(map[string]string),
	}
}

// RecordBugReport serializes report to <dir>/bug_<unix_seconds>.yaml and
// returns the written path.
func (d *Diagnostics) RecordBugReport(report BugReport) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating bug report dir %s: %w", d.dir, err)
	}
	now := time.Now()
	if report.Timestamp == "" {
		report.Timestamp = now.UTC().Format(time.RFC3339)
	}
	path := filepath.Join(d.dir, fmt.Sprintf("bug_%d.yaml", now.Unix()))

	out, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("marshaling bug report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing bug report %s: %w", path, err)
	}
	d.bugReports = append(d.bugReports, path)
	logrus.Errorf("Bug report saved to %s", path)
	return path, nil
}

// RecordScenarioHash remembers the hash a scenario file produced.
func (d *Diagnostics) RecordScenarioHash(scenarioPath, hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scenarioHashes[scenarioPath] = hash
}

// ScenarioHash returns the recorded hash for scenarioPath, if any.
func (d *Diagnostics) ScenarioHash(scenarioPath string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.scenarioHashes[scenarioPath]
	return h, ok
}

// BugReports returns the paths of all bug reports written so far.
func (d *Diagnostics) BugReports() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.bugReports))
	copy(out, d.bugReports)
	return out
}
