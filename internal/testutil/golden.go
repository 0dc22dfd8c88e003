// Package testutil provides shared test infrastructure for the module's packages.
// It resolves repository fixtures and wraps golden-file assertions.
package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RepoPath returns the absolute path of elem relative to the repository root.
// The path is resolved relative to this source file: internal/testutil/ → repo root.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	root := filepath.Join(filepath.Dir(thisFile), "..", "..")
	return filepath.Join(append([]string{root}, elem...)...)
}

// AssertGolden compares got against testdata/golden/<name>.golden at the
// repository root. Run tests with -update to rewrite the golden file.
func AssertGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(RepoPath(t, "testdata", "golden")),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}
