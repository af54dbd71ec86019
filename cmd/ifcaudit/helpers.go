package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ifcaudit/internal/config"
	"ifcaudit/internal/errors"
	"ifcaudit/internal/model"
)

func currentConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// effectiveFormat resolves --format, falling back to the configured default.
func effectiveFormat() (OutputFormat, error) {
	if formatFlag != "" {
		return ParseOutputFormat(formatFlag)
	}
	return ParseOutputFormat(currentConfig().Output.Format)
}

// printResponse renders resp in the effective format on the command's
// stdout.
func printResponse(cmd *cobra.Command, resp interface{}) error {
	format, err := effectiveFormat()
	if err != nil {
		return err
	}
	out, err := FormatResponse(resp, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func openModel(path string) (*model.Model, error) {
	start := time.Now()
	m, err := model.Open(path, appLogger)
	if err != nil {
		return nil, err
	}
	appLogger.Info("Model loaded",
		"file", path,
		"schema", m.Schema().ID(),
		"instances", m.Len(),
		"duration", time.Since(start).String(),
	)
	return m, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func requireFlag(name, value string) error {
	if value == "" {
		return errors.Newf(errors.InvalidInput, "--%s is required", name)
	}
	return nil
}
