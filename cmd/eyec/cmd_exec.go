package main

import (
	"github.com/spf13/cobra"

	"eyec/internal/driver"
)

func newExecCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [--] TOOL [ARGS...]",
		Short: "Run one toolchain command and record it, without installing shims",
		Long: `Runs TOOL exactly as a shim named TOOL would: the real tool is looked up on
the PATH, run with the current stdio, and the resulting stage is appended
to the report. eyec exits with the tool's exit code.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *opts.cfg
			cfg.ReportPath = opts.reportPath()
			cfg.Quiet = true
			d, err := driver.New(&cfg)
			if err != nil {
				return err
			}
			d.Stdio = driver.Stdio{
				Stdin:  cmd.InOrStdin(),
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if code := d.Run(cmd.Context(), args); code != 0 {
				return exitCodeError{code: code}
			}
			return nil
		},
	}
	// Everything after TOOL belongs to TOOL.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
