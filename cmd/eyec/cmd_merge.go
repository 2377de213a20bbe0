package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eyec/internal/report"
)

func newMergeCmd(_ *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge -o OUTPUT REPORT...",
		Short: "Concatenate several reports into one",
		Long: `Reads every REPORT and writes one report holding all of their files and
stages, in argument order. Identifiers are random, so reports recorded by
separate builds never collide.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := report.MergeFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			if err := report.Save(output, merged); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d reports into %s (%d files, %d stages)\n",
				len(args), output, len(merged.Files), len(merged.Stages))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Merged report path (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
