// eyec stands in for a compiler or archiver on the PATH and records every
// build action it forwards into a shared JSON report.
//
// Installed under a toolchain name (gcc, g++, cc, c++, ar), it runs the real
// tool and appends what it observed. Invoked as eyec, it is a CLI over the
// report:
//
//	eyec shims ~/.eyec/bin           # then: export PATH=~/.eyec/bin:$PATH
//	eyec exec -- gcc -c a.c -o a.o
//	eyec stats
//	eyec graph | dot -Tsvg > build.svg
//	eyec merge -o all.json a/eyec-report.json b/eyec-report.json
//	eyec validate
//	eyec serve
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"eyec/internal/config"
	"eyec/internal/driver"
	"eyec/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

const selfName = "eyec"

func main() {
	if isWrapperInvocation(os.Args[0]) {
		os.Exit(runWrapper(context.Background(), os.Args))
	}
	if err := newRootCmd().Execute(); err != nil {
		var exit exitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isWrapperInvocation reports whether argv0 names a wrapped tool rather
// than eyec itself.
func isWrapperInvocation(argv0 string) bool {
	name := strings.TrimSuffix(filepath.Base(argv0), ".exe")
	return name != selfName
}

// runWrapper never lets configuration trouble break the build: a bad config
// file is logged and the defaults are used instead.
func runWrapper(ctx context.Context, argv []string) int {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg := config.Defaults(cwd)
	cfgErr := cfg.ApplyFile(cwd, os.Getenv)
	cfg.ApplyEnv(os.Getenv)
	initLogging(cfg)
	if cfgErr != nil {
		logging.New("config").Warn("ignoring config file", "error", cfgErr)
	}

	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "eyec: %v\n", err)
		return driver.ExitNotFound
	}
	return d.Run(ctx, argv)
}

func initLogging(cfg *config.Config) {
	level, err := logging.ParseLevel(cfg.LogLevel, defaultLevel)
	logging.Init(level, cfg.LogFormat, os.Stderr)
	if err != nil {
		logging.New("config").Warn("invalid log level", "error", err)
	}
}

// exitCodeError carries a wrapped tool's exit code out of a cobra command.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
