// Package driver runs a wrapped toolchain invocation end to end: it finds
// the real tool, runs it with the caller's stdio, and records what it did
// in the shared build report.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"eyec/internal/classify"
	"eyec/internal/config"
	"eyec/internal/ident"
	"eyec/internal/logging"
	"eyec/internal/report"
)

// Exit codes that belong to eyec rather than the wrapped tool.
const (
	ExitStorageFailure = 120
	ExitEntropyFailure = 121
	ExitCannotRun      = 126
	ExitNotFound       = 127
)

// Driver holds everything one wrapped invocation needs.
type Driver struct {
	Classifier *classify.Classifier
	Store      *report.Store
	Notice     *Notice // nil disables the notice
	Self       string  // canonical path of the wrapper, skipped during lookup
	PathEnv    string
	Stdio      Stdio
	Log        *slog.Logger
}

// New builds a driver for the current process from cfg.
func New(cfg *config.Config) (*Driver, error) {
	self, err := Self()
	if err != nil {
		return nil, err
	}
	d := &Driver{
		Classifier: classify.New(classify.DefaultMatcher().With(cfg.Compilers, cfg.Archivers)),
		Store:      &report.Store{Path: cfg.ReportPath, LockTimeout: cfg.LockTimeout},
		Self:       self,
		PathEnv:    os.Getenv("PATH"),
		Stdio:      Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
		Log:        logging.New("driver"),
	}
	if !cfg.Quiet {
		d.Notice = &Notice{StampPath: DefaultStampPath(), Interval: cfg.NoticeInterval}
	}
	return d, nil
}

// Run executes argv (argv[0] names the tool) and returns the process exit
// code. The wrapped tool's exit code is returned unchanged unless the
// report could not be persisted.
func (d *Driver) Run(ctx context.Context, argv []string) int {
	log := d.Log
	if log == nil {
		log = logging.New("driver")
	}
	if len(argv) == 0 {
		fmt.Fprintln(d.stderr(), "eyec: no program to run")
		return ExitNotFound
	}
	if d.Notice != nil {
		d.Notice.Show(d.stderr())
	}

	program, err := Resolve(argv[0], d.PathEnv, d.Self)
	if err != nil {
		fmt.Fprintf(d.stderr(), "eyec: %v\n", err)
		return ExitNotFound
	}
	log.Debug("resolved", "argv", argv, "program", program)

	res, err := Execute(program, argv[1:], d.Stdio)
	if errors.Is(err, ErrStart) {
		fmt.Fprintf(d.stderr(), "eyec: %v\n", err)
		return ExitCannotRun
	}
	if err != nil {
		log.Warn("child i/o", "program", program, "error", err)
	}
	if res.Signaled {
		log.Info("tool interrupted; not recorded", "program", program, "signal", res.Signal)
		return res.ExitCode
	}

	err = d.Store.Update(ctx, func(r *report.Report) error {
		return d.Classifier.Classify(program, argv, r, res.Duration)
	})
	switch {
	case err == nil:
	case errors.Is(err, ident.ErrEntropy):
		fmt.Fprintf(d.stderr(), "eyec: fatal: %v\n", err)
		return ExitEntropyFailure
	default:
		fmt.Fprintf(d.stderr(), "eyec: fatal: cannot record build report: %v\n", err)
		return ExitStorageFailure
	}
	log.Debug("recorded", "program", program, "exit_code", res.ExitCode, "duration", res.Duration)
	return res.ExitCode
}

func (d *Driver) stderr() io.Writer {
	if d.Stdio.Stderr == nil {
		return os.Stderr
	}
	return d.Stdio.Stderr
}
