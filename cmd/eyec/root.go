package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"eyec/internal/config"
	"eyec/internal/report"
)

const defaultLevel = slog.LevelWarn

// rootOptions are shared by every subcommand.
type rootOptions struct {
	report   string
	logLevel string
	cfg      *config.Config
}

// reportPath is --report, else the configured report.
func (o *rootOptions) reportPath() string {
	if o.report != "" {
		return o.report
	}
	return o.cfg.ReportPath
}

func (o *rootOptions) readReport() (*report.Report, error) {
	path := o.reportPath()
	r, err := report.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return r, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "eyec",
		Short: "Record compiler, linker and archiver invocations into a build report",
		Long: "eyec wraps the C/C++ toolchain: link it under a tool's name ahead of the real tool\n" +
			"on the PATH and every compile, link and archive step is timed and recorded.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("working directory: %w", err)
			}
			cfg, err := config.Resolve(cwd, os.Getenv)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			opts.cfg = cfg
			initLogging(cfg)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.report, "report", "", "Report file (default $EYEC_REPORT or ./eyec-report.json)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newExecCmd(opts),
		newGraphCmd(opts),
		newStatsCmd(opts),
		newValidateCmd(opts),
		newMergeCmd(opts),
		newShimsCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the eyec version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eyec %s\n", version)
		},
	}
}
