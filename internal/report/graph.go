package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDOT renders r as a Graphviz digraph laid out left to right.
//
// Each stage contributes an edge from every input to its first output;
// stages without outputs are skipped. Single-input edges carry the stage
// duration as a label, multi-input targets carry it as an xlabel.
func WriteDOT(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	files := r.FileIndex()

	fmt.Fprintln(bw, "digraph {")
	fmt.Fprintln(bw, "rankdir=LR")
	for _, s := range r.Stages {
		if len(s.Outputs) == 0 {
			continue
		}
		to, ok := files[s.Outputs[0]]
		if !ok {
			continue
		}
		label := fmt.Sprintf("%dms", s.Duration)
		for _, id := range s.Inputs {
			from, ok := files[id]
			if !ok {
				continue
			}
			if len(s.Inputs) == 1 {
				fmt.Fprintf(bw, "%q -> %q [ label=%q ];\n", from.Name, to.Name, label)
			} else {
				fmt.Fprintf(bw, "%q -> %q\n", from.Name, to.Name)
			}
			fmt.Fprintf(bw, "%q [ %s];\n", from.Name, nodeAttributes(from, ""))
		}
		xlabel := ""
		if len(s.Inputs) > 1 {
			xlabel = label
		}
		fmt.Fprintf(bw, "%q [ %s];\n", to.Name, nodeAttributes(to, xlabel))
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func nodeAttributes(f File, xlabel string) string {
	var b strings.Builder
	switch f.Kind {
	case Executable:
		b.WriteString("shape=box ")
	case Library:
		b.WriteString(`style="filled" fillcolor="gray" `)
	case Object:
		b.WriteString(`style="filled" fillcolor="lightgray" `)
	}
	if xlabel != "" {
		fmt.Fprintf(&b, "xlabel=%q ", xlabel)
	}
	return b.String()
}
