//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package executor runs shell commands on the local host (unsafe) and
// captures their combined output in the shape the summarize pipeline
// expects: stderr appended under a marker, nonzero exit codes prefixed.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tonyzdev/skim/internal/telemetry"
	"github.com/tonyzdev/skim/log"
)

// DefaultTimeout bounds a single command run.
const DefaultTimeout = 120 * time.Second

// stderrMarker separates captured stderr from stdout in Output.
const stderrMarker = "[stderr]"

// Executor runs commands through the shell in a fixed working directory.
type Executor struct {
	workDir string
	timeout time.Duration
	shell   string
}

// Option configures an Executor.
type Option func(*Executor)

// WithWorkDir sets the working directory used for execution.
func WithWorkDir(workDir string) Option {
	return func(e *Executor) { e.workDir = workDir }
}

// WithTimeout sets the per-command timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithShell overrides the shell binary used to interpret commands.
func WithShell(shell string) Option {
	return func(e *Executor) {
		if shell != "" {
			e.shell = shell
		}
	}
}

// New creates a local Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		timeout: DefaultTimeout,
		shell:   "sh",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the captured outcome of one command run.
type Result struct {
	// Output is stdout, with stderr appended under the [stderr] marker
	// and a leading [Exit code: N] line when the command failed.
	Output string
	// ExitCode is the command's exit status.
	ExitCode int
	// Duration is the wall-clock run time.
	Duration time.Duration
	// ExecutionID identifies this run for bookkeeping.
	ExecutionID string
}

// Run executes command through the shell and captures its output. A
// nonzero exit status is not an error here: the output (with its exit-code
// prefix) is still worth summarizing. Errors are reserved for the command
// failing to start or exceeding the timeout.
func (e *Executor) Run(ctx context.Context, command string) (*Result, error) {
	execID := uuid.NewString()
	ctx, span := telemetry.StartSpan(ctx, telemetry.OperationExec,
		telemetry.KeyCommand.String(command),
	)

	timeoutCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// #nosec G204 -- running caller-supplied commands is this package's job
	cmd := exec.CommandContext(timeoutCtx, e.shell, "-c", command)
	cmd.Dir = e.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if timeoutCtx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("command timed out after %s", e.timeout)
		telemetry.EndSpan(span, err)
		return nil, err
	}
	// A killed process also surfaces as an ExitError, so caller
	// cancellation must be checked before the exit-code branch.
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("command canceled: %w", ctxErr)
		telemetry.EndSpan(span, err)
		return nil, err
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			telemetry.EndSpan(span, err)
			return nil, fmt.Errorf("running command: %w", err)
		}
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n" + stderrMarker + "\n" + stderr.String()
	}
	if exitCode != 0 {
		output = fmt.Sprintf("[Exit code: %d]\n%s", exitCode, output)
	}

	span.SetAttributes(telemetry.KeyExitCode.Int(exitCode))
	telemetry.EndSpan(span, nil)
	log.Debugf("command finished in %s (exit %d, %d bytes)",
		duration, exitCode, len(output))

	return &Result{
		Output:      output,
		ExitCode:    exitCode,
		Duration:    duration,
		ExecutionID: execID,
	}, nil
}

// Describe returns a short single-line description of a command for log
// and error messages.
func Describe(command string) string {
	command = strings.TrimSpace(command)
	if i := strings.IndexByte(command, '\n'); i >= 0 {
		command = command[:i] + " ..."
	}
	return command
}
