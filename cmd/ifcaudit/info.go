package main

import (
	"github.com/spf13/cobra"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/model"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the header and project of a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := openModel(args[0])
	if err != nil {
		return err
	}
	h := m.Header()
	resp := &InfoResponseCLI{
		File:        args[0],
		SizeBytes:   fileSize(args[0]),
		Schema:      m.Schema().ID(),
		FileName:    h.Name,
		TimeStamp:   h.TimeStamp,
		Originating: h.OriginatingSystem,
		Elements:    m.Len(),
		Products:    len(m.AllOfCategory(model.DefaultCategory)),
	}

	project, err := m.ProjectInfo()
	switch {
	case err == nil:
		resp.Project = project
	case errors.HasCode(err, errors.NoProjectElement):
		resp.ProjectProblem = err.Error()
	default:
		return err
	}
	return printResponse(cmd, resp)
}
