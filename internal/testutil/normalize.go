package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// volatileFields are dropped before golden comparison.
var volatileFields = map[string]bool{
	"id":        true,
	"timestamp": true,
	"createdAt": true,
	"elapsed":   true,
}

// MarshalNormalized marshals data to stable JSON for golden comparison:
// volatile fields removed, temp paths replaced with <tempdir>, two-space
// indentation and a trailing newline.
func MarshalNormalized(t *testing.T, data any) []byte {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal data for normalization: %v", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Failed to unmarshal data for normalization: %v", err)
	}

	// encoding/json sorts map keys, so the round trip is canonical.
	out, err := json.MarshalIndent(normalizeValue(generic, tempRoots()), "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal normalized data: %v", err)
	}
	return append(out, '\n')
}

func tempRoots() []string {
	roots := []string{filepath.ToSlash(os.TempDir())}
	if resolved, err := filepath.EvalSymlinks(os.TempDir()); err == nil {
		roots = append(roots, filepath.ToSlash(resolved))
	}
	return roots
}

func normalizeValue(v any, roots []string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if volatileFields[k] {
				continue
			}
			out[k] = normalizeValue(item, roots)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item, roots)
		}
		return out
	case string:
		return normalizeString(val, roots)
	default:
		return v
	}
}

func normalizeString(s string, roots []string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	for _, root := range roots {
		if root != "" && strings.HasPrefix(s, root) {
			return "<tempdir>/" + filepath.Base(s)
		}
	}
	return s
}
