package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// ErrStart is returned when the real tool could not be started.
var ErrStart = errors.New("cannot start real tool")

// Result describes a finished child process.
type Result struct {
	ExitCode int
	Duration time.Duration
	// Signaled is set when the child was terminated by a signal; such runs
	// are not recorded.
	Signaled bool
	Signal   syscall.Signal
}

// Stdio is the set of streams handed to the child unchanged.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs path with args, forwarding SIGINT and SIGTERM, and measures
// its wall-clock duration.
func Execute(path string, args []string, stdio Stdio) (Result, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr

	sigCh := make(chan os.Signal, 4)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrStart, path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)
	res := Result{Duration: time.Since(start)}

	if ws, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		res.Signaled = true
		res.Signal = ws.Signal()
		res.ExitCode = 128 + int(ws.Signal())
		return res, nil
	}
	res.ExitCode = cmd.ProcessState.ExitCode()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Copying stdio failed after the child finished.
		return res, fmt.Errorf("wait %s: %w", path, err)
	}
	return res, nil
}
