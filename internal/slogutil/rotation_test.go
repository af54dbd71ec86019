package slogutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"", 0},
		{"invalid", 0},
		{"100", 100},
		{"100B", 100},
		{"1KB", 1000},
		{"1KiB", 1024},
		{"10MB", 10 * 1000 * 1000},
		{"1MiB", 1024 * 1024},
		{"1.5 MB", 1500000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSize(tt.input); got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ifcaudit.log")

	rf, err := OpenRotatingFile(path, 30, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error = %v", err)
	}
	defer rf.Close()

	line := []byte("0123456789abcdefghi\n") // 20 bytes
	for i := 0; i < 4; i++ {
		if _, err := rf.Write(line); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("%s missing: %v", filepath.Base(p), err)
		}
		if info.Size() != int64(len(line)) {
			t.Errorf("%s size = %d, want %d", filepath.Base(p), info.Size(), len(line))
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("backup beyond maxBackups should not exist")
	}
}

func TestRotatingFile_NoRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.log")
	rf, err := OpenRotatingFile(path, 0, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		rf.Write([]byte("line\n"))
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := rf.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if got := strings.Count(string(data), "\n"); got != 10 {
		t.Errorf("lines = %d, want 10", got)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("no backup expected without a size limit")
	}
}

func TestSetup(t *testing.T) {
	var stderr bytes.Buffer
	logger, closer, err := Setup(Options{Level: slog.LevelInfo, Stderr: &stderr})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	logger.Info("console only")
	closer.Close()
	if !strings.Contains(stderr.String(), "console only") {
		t.Errorf("stderr = %q", stderr.String())
	}

	stderr.Reset()
	path := filepath.Join(t.TempDir(), "run.log")
	logger, closer, err = Setup(Options{Level: slog.LevelWarn, Stderr: &stderr, File: path, MaxSize: "1MB"})
	if err != nil {
		t.Fatalf("Setup(file) error = %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "file", "a.ifc")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	for name, out := range map[string]string{"stderr": stderr.String(), "file": string(data)} {
		if strings.Contains(out, "dropped") || !strings.Contains(out, "kept | file=a.ifc") {
			t.Errorf("%s output = %q", name, out)
		}
	}
}
