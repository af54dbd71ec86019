package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"ifcaudit/internal/config"
	"ifcaudit/internal/errors"
	"ifcaudit/internal/slogutil"
	"ifcaudit/internal/version"
)

var (
	formatFlag     string
	verboseFlag    int
	quietFlag      bool
	configPathFlag string
	logFileFlag    string
)

// Set by the root pre-run for every command.
var (
	appConfig *config.Config
	appLogger = slogutil.NewDiscardLogger()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "ifcaudit",
	Short: "ifcaudit - building model analysis",
	Long: `ifcaudit reads IFC building models (STEP physical files, optionally
zipped or gzipped) and reports element counts, revision differences,
flattened property tables, window glazing and content-hash revision logs.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// closeLog releases the log file. Cobra skips post-run hooks when a command
// fails, so main calls it as well.
func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func init() {
	rootCmd.SetVersionTemplate("ifcaudit version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "",
		"Output format: human, json, yaml or csv (default from config)")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all logs")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "",
		"Config file (default: ./.ifcaudit/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Also write logs to this file")
}

// setupRun loads the configuration and builds the logger. Flags override
// the config file, which overrides the defaults.
func setupRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.New(errors.ConfigInvalid, "invalid configuration", err)
	}
	appConfig = cfg

	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verboseFlag > 0 || quietFlag {
		level = slogutil.LevelFromVerbosity(verboseFlag, quietFlag)
	}
	logFile := cfg.Logging.File
	if logFileFlag != "" {
		logFile = logFileFlag
	}

	logger, closer, err := slogutil.Setup(slogutil.Options{
		Level:      level,
		Stderr:     cmd.ErrOrStderr(),
		File:       logFile,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return errors.New(errors.ConfigInvalid, "cannot open log file", err)
	}
	appLogger, logCloser = logger, closer
	appLogger.Debug("Configuration loaded",
		"command", cmd.Name(),
		"format", cfg.Output.Format,
		"revisionStore", cfg.Revision.Store,
	)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPathFlag != "" {
		cfg, err := config.LoadConfigFile(configPathFlag)
		if err != nil {
			return nil, errors.New(errors.ConfigInvalid, "cannot load config", err)
		}
		return cfg, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.New(errors.InternalError, "cannot determine working directory", err)
	}
	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "cannot load config", err)
	}
	return cfg, nil
}
