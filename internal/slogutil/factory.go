package slogutil

import (
	"io"
	"log/slog"
	"os"
)

// Options describes where CLI logs go.
type Options struct {
	Level slog.Level
	// Stderr receives log lines; nil means os.Stderr.
	Stderr io.Writer
	// File, when set, also receives every line at Level.
	File       string
	MaxSize    string
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger. The returned closer releases the log
// file, if any.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	console := NewLineHandler(stderr, &slog.HandlerOptions{Level: opts.Level})
	if opts.File == "" {
		return slog.New(console), nopCloser{}, nil
	}

	rf, err := OpenRotatingFile(opts.File, ParseSize(opts.MaxSize), opts.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	file := NewLineHandler(rf, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(NewTeeHandler(console, file)), rf, nil
}
