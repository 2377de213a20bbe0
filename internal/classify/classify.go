// Package classify turns an observed toolchain invocation into report
// records.
//
// Classification is argument-shape based: a compiler run with -c is a
// compilation, a compiler run with -o is a link, and an archiver run is an
// archiving step. Anything else produces no record and is not an error.
package classify

import (
	"fmt"
	"time"

	"eyec/internal/ident"
	"eyec/internal/logging"
	"eyec/internal/report"
)

// Classifier appends the records for one invocation to a report.
type Classifier struct {
	Matcher Matcher
	NewID   func() (string, error)
}

// New returns a classifier using m and crypto/rand identifiers.
func New(m Matcher) *Classifier {
	return &Classifier{Matcher: m, NewID: ident.New}
}

// Classify records one invocation with the default matcher.
func Classify(program string, args []string, r *report.Report, d time.Duration) error {
	return New(DefaultMatcher()).Classify(program, args, r, d)
}

// Classify inspects the resolved program path and its full argument vector
// and appends at most one stage to r. The only error is identifier
// generation failing, in which case r is left untouched.
func (c *Classifier) Classify(program string, args []string, r *report.Report, d time.Duration) error {
	kind := c.matcher().Match(program)
	inv := Parse(args)

	b := &builder{newID: c.NewID, duration: d.Milliseconds()}
	if b.newID == nil {
		b.newID = ident.New
	}

	var ok bool
	switch kind {
	case Compiler:
		ok = b.compiler(inv)
	case Archiver:
		ok = b.archiver(inv)
	}
	if b.err != nil {
		return fmt.Errorf("classify %s: %w", program, b.err)
	}
	if !ok {
		logging.New("classify").Debug("no record", "program", program, "kind", kind)
		return nil
	}
	r.Append(b.stage, b.files...)
	logging.New("classify").Debug("recorded stage", "program", program,
		"type", b.stage.Kind, "inputs", len(b.stage.Inputs), "outputs", len(b.stage.Outputs),
		"duration_ms", b.stage.Duration)
	return nil
}

func (c *Classifier) matcher() Matcher {
	if c.Matcher == nil {
		return DefaultMatcher()
	}
	return c.Matcher
}

// builder accumulates one stage and its files. After the first id failure
// every further call is a no-op.
type builder struct {
	newID    func() (string, error)
	duration int64
	stage    report.Stage
	files    []report.File
	err      error
}

func (b *builder) id() string {
	if b.err != nil {
		return ""
	}
	id, err := b.newID()
	if err != nil {
		b.err = err
	}
	return id
}

func (b *builder) file(kind report.FileKind, name string) string {
	id := b.id()
	b.files = append(b.files, report.File{ID: id, Kind: kind, Name: name})
	return id
}

func (b *builder) begin(kind report.StageKind) {
	b.stage = report.Stage{
		ID:       b.id(),
		Kind:     kind,
		Inputs:   []string{},
		Outputs:  []string{},
		Duration: b.duration,
	}
}

func (b *builder) input(kind report.FileKind, names ...string) {
	for _, n := range names {
		b.stage.Inputs = append(b.stage.Inputs, b.file(kind, n))
	}
}

func (b *builder) output(kind report.FileKind, names ...string) {
	for _, n := range names {
		b.stage.Outputs = append(b.stage.Outputs, b.file(kind, n))
	}
}

func (b *builder) compiler(inv Invocation) bool {
	if inv.Compile {
		b.begin(report.Compilation)
		b.input(report.Source, inv.Sources...)
		// The object name cannot be attributed when several sources compile
		// in one run.
		if len(inv.Sources) == 1 && inv.HasOutput {
			b.output(report.Object, inv.Output)
		}
		return true
	}
	if !inv.HasOutput {
		return false
	}
	b.begin(report.Link)
	b.output(report.Executable, inv.Output)
	b.input(report.Library, inv.Libraries...)
	b.input(report.Library, inv.Archives...)
	b.input(report.Object, inv.Objects...)
	return true
}

func (b *builder) archiver(inv Invocation) bool {
	b.begin(report.Archiving)
	b.output(report.Library, inv.Archives...)
	b.input(report.Object, inv.Objects...)
	return true
}
