package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the report is well formed and internally consistent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.readReport()
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%s is inconsistent:\n%w", opts.reportPath(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d files, %d stages)\n", opts.reportPath(), len(r.Files), len(r.Stages))
			return nil
		},
	}
}
