package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"eyec/internal/report"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the report as a Graphviz DOT graph",
		Long: `Writes the build graph in DOT: one node per file, one edge per input of a
stage, labelled with the stage duration. Pipe it into dot(1):

  eyec graph | dot -Tsvg > build.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.readReport()
			if err != nil {
				return err
			}
			if output == "" {
				return report.WriteDOT(cmd.OutOrStdout(), r)
			}
			var buf bytes.Buffer
			if err := report.WriteDOT(&buf, r); err != nil {
				return err
			}
			return writeOutput(output, buf.Bytes(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the graph to a file instead of stdout")
	return cmd
}

func writeOutput(path string, data []byte, status io.Writer) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(status, "Wrote %s\n", path)
	return nil
}
