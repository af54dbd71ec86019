package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ifcaudit/internal/config"
	"ifcaudit/internal/errors"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage ifcaudit configuration",
	Long: `View and create the configuration stored in .ifcaudit/config.toml.
Every key can be overridden with an IFCAUDIT_<SECTION>_<KEY> environment
variable, e.g. IFCAUDIT_OUTPUT_FORMAT=json.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to .ifcaudit/config.toml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return errors.New(errors.InternalError, "cannot determine working directory", err)
	}
	path := config.Path(wd)
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.Newf(errors.InvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(wd); err != nil {
		return errors.New(errors.InternalError, "cannot write config", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	format, err := effectiveFormat()
	if err != nil {
		return err
	}
	if format != FormatHuman {
		return printResponse(cmd, cfg)
	}

	var b strings.Builder
	b.WriteString("ifcaudit configuration\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	if err := cfg.Encode(&b); err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
