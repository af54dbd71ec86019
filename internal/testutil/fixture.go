// Package testutil provides fixture and golden-file helpers for tests.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixturePath returns the absolute path of a model file under
// testdata/fixtures, failing the test when it does not exist.
func FixturePath(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(getFixturesRoot(t), name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Fixture not found: %s", path)
	}
	return path
}

// ReadFixture returns the contents of a fixture file.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", name, err)
	}
	return data
}

// CopyFixture copies a fixture into a fresh temporary directory and returns
// the copy's path. Tests that modify files work on the copy.
func CopyFixture(t *testing.T, name string) string {
	t.Helper()

	src, err := os.Open(FixturePath(t, name))
	if err != nil {
		t.Fatalf("Failed to open fixture %s: %v", name, err)
	}
	defer src.Close()

	dstPath := filepath.Join(t.TempDir(), filepath.Base(name))
	dst, err := os.Create(dstPath)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", dstPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		t.Fatalf("Failed to copy fixture %s: %v", name, err)
	}
	if err := dst.Close(); err != nil {
		t.Fatalf("Failed to close %s: %v", dstPath, err)
	}
	return dstPath
}

// getFixturesRoot returns the absolute path to testdata/fixtures/.
func getFixturesRoot(t *testing.T) string {
	t.Helper()

	// Get the directory of this source file
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	fixturesRoot := filepath.Join(projectRoot, "testdata", "fixtures")

	if _, err := os.Stat(fixturesRoot); os.IsNotExist(err) {
		t.Fatalf("Fixtures root not found: %s", fixturesRoot)
	}

	return fixturesRoot
}
