// Package toolrun invokes external programs (archiver, document compiler)
// in an explicit working directory and reports how they exited.
package toolrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kingrea/coursepack/internal/logging"
)

// Result captures one finished invocation.
type Result struct {
	Dir      string
	Argv     []string
	ExitCode int
	Output   []byte
}

// Command renders the shell equivalent of the invocation.
func (r Result) Command() string {
	return strings.Join(r.Argv, " ")
}

// Success reports a zero exit status.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Err returns an *ExitError when the tool exited non-zero.
func (r Result) Err() error {
	if r.Success() {
		return nil
	}
	return &ExitError{Result: r}
}

// ExitError is returned for invocations that ran but failed.
type ExitError struct {
	Result Result
}

const outputTailLines = 8

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%q exited with status %d", e.Result.Command(), e.Result.ExitCode)
	if tail := lastLines(e.Result.Output, outputTailLines); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// Runner executes a program in dir. A non-nil error means the program could
// not be run at all; a program that ran and failed is reported through
// Result.ExitCode.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (Result, error)
}

// Check runs the program and folds a non-zero exit into the returned error.
func Check(ctx context.Context, r Runner, dir string, name string, args ...string) (Result, error) {
	res, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		return res, err
	}
	return res, res.Err()
}

// ExecRunner runs programs with os/exec, echoing each command to the logger.
type ExecRunner struct {
	Log *logging.Logger
}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner(log *logging.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run implements Runner. The process inherits no working directory from
// the caller; dir is always set explicitly.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	argv := append([]string{name}, args...)
	res := Result{Dir: dir, Argv: argv}
	if dir == "" {
		return res, fmt.Errorf("toolrun: %s: working directory is required", name)
	}
	r.Log.Command(dir, argv)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	res.Output = output.Bytes()
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		r.Log.Printf("%s exited %d", name, res.ExitCode)
		return res, nil
	}
	res.ExitCode = -1
	return res, fmt.Errorf("toolrun: run %s: %w", name, err)
}

func lastLines(output []byte, n int) string {
	text := strings.TrimSpace(string(output))
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
