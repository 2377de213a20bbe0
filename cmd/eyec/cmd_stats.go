package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eyec/internal/format"
	"eyec/internal/report"
)

const stageLabelWidth = 72

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		markdown bool
		top      int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize where the build spent its time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.readReport()
			if err != nil {
				return err
			}
			mode := format.ASCII
			if markdown {
				mode = format.Markdown
			}
			writeStats(cmd.OutOrStdout(), report.Summarize(r, top), mode)
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render tables as Markdown")
	cmd.Flags().IntVar(&top, "top", 10, "Number of slowest stages to list (negative for all)")
	return cmd
}

func writeStats(w io.Writer, s report.Summary, mode format.Mode) {
	fmt.Fprintf(w, "%d files, %d stages, %s total\n\n", s.Files, s.Stages, format.Millis(s.TotalMs))

	kinds := format.NewTable(mode)
	kinds.Title("Time by stage type")
	kinds.Header("Type", "Stages", "Total", "Max", "Share")
	kinds.Columns(
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
		format.ColumnConfig{Number: 4, Align: format.AlignRight},
		format.ColumnConfig{Number: 5, Align: format.AlignRight},
	)
	for _, k := range s.ByKind {
		kinds.Row(string(k.Kind), k.Count, format.Millis(k.TotalMs), format.Millis(k.MaxMs), format.Percent(k.TotalMs, s.TotalMs))
	}
	kinds.Footer("Total", s.Stages, format.Millis(s.TotalMs), "", "")
	fmt.Fprintln(w, kinds.String())

	if len(s.Slowest) == 0 {
		return
	}
	slow := format.NewTable(mode)
	slow.Title("Slowest stages")
	slow.Header("#", "Type", "Duration", "Stage")
	slow.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 3, Align: format.AlignRight},
	)
	for i, st := range s.Slowest {
		slow.Row(i+1, string(st.Kind), format.Millis(st.DurationMs), format.Truncate(st.Label(), stageLabelWidth))
	}
	fmt.Fprintln(w, slow.String())
}
