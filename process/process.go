package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/kballard/go-shellquote"
)

// waitDelay bounds how long the output pipes are drained after the command
// exited, in case a background descendant keeps them open.
const waitDelay = time.Second

// Params ...
type Params struct {
	Command string
	Dir     string
	Timeout time.Duration
	Input   string
}

// Result ...
type Result struct {
	Stdout   string
	ExitCode int
	Signal   string
	Duration time.Duration
}

// Runner ...
type Runner interface {
	// Execute runs a shell command and returns its buffered stdout.
	// Errors are *TimeoutError, *ProcessError, ctx.Err() or the error of
	// starting the process. The partial Result is returned with every error.
	Execute(ctx context.Context, params Params) (Result, error)
}

type runner struct {
	logger        log.Logger
	envRepository env.Repository
	shell         []string
	stdout        io.Writer
	stderr        io.Writer
}

// NewRunner creates a runner which starts commands with shell, passing the
// environment of envRepository, and forwards their output to stdout and stderr
// (indented, line by line).
func NewRunner(logger log.Logger, envRepository env.Repository, shell []string, stdout, stderr io.Writer) Runner {
	if len(shell) == 0 {
		shell = DefaultShell
	}
	return runner{
		logger:        logger,
		envRepository: envRepository,
		shell:         shell,
		stdout:        stdout,
		stderr:        stderr,
	}
}

func (r runner) Execute(ctx context.Context, params Params) (Result, error) {
	var outBuffer bytes.Buffer
	stdout := NewLineWriter(r.stdout, Indent)
	stderr := NewLineWriter(r.stderr, Indent)
	defer func() {
		stdout.Flush()
		stderr.Flush()
	}()

	stdoutPipe, err := newPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderrPipe, err := newPipe()
	if err != nil {
		stdoutPipe.close()
		return Result{}, fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	pipes := []*pipe{stdoutPipe, stderrPipe}

	args := append(append([]string{}, r.shell[1:]...), params.Command)
	cmd := exec.Command(r.shell[0], args...)
	cmd.Dir = params.Dir
	cmd.Env = r.envRepository.List()
	cmd.Stdout = stdoutPipe.writer
	cmd.Stderr = stderrPipe.writer

	var stdinPipe *pipe
	if params.Input != "" {
		stdinPipe, err = newPipe()
		if err != nil {
			closePipes(pipes...)
			return Result{}, fmt.Errorf("failed to create stdin pipe: %w", err)
		}
		cmd.Stdin = stdinPipe.reader
		defer stdinPipe.close()
	}
	prepareProcessTree(cmd)

	r.logger.Debugf("$ %s", shellquote.Join(cmd.Args...))

	start := time.Now()
	if err := cmd.Start(); err != nil {
		closePipes(pipes...)
		return Result{Duration: time.Since(start)}, err
	}

	stdoutPipe.copyTo(CreateBufferedWriter(&outBuffer, stdout))
	stderrPipe.copyTo(stderr)
	if stdinPipe != nil {
		stdinPipe.writeFrom(params.Input)
	}

	waitErrs := make(chan error, 1)
	go func() {
		waitErrs <- cmd.Wait()
	}()

	waitErr, stopErr := r.wait(ctx, cmd, waitErrs, params.Timeout)
	duration := time.Since(start)

	if !drain(waitDelay, pipes...) {
		r.logger.Warnf("Command exited, but its output was still held open by a background process")
	}

	result := Result{
		Stdout:   outBuffer.String(),
		Duration: duration,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.Signal = signalName(cmd.ProcessState)
	}

	if stopErr != nil {
		return result, stopErr
	}
	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return result, &ProcessError{ExitCode: exitErr.ExitCode(), Signal: result.Signal}
	}

	return result, waitErr
}

// wait blocks until the command exits, the timeout elapses or ctx is done.
// In the latter two cases the process tree is killed and the returned stopErr
// is a *TimeoutError or ctx.Err(); the exit status is then discarded.
func (r runner) wait(ctx context.Context, cmd *exec.Cmd, waitErrs <-chan error, timeout time.Duration) (waitErr, stopErr error) {
	if timeout <= 0 {
		r.kill(cmd)
		<-waitErrs
		return nil, &TimeoutError{Timeout: timeout}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-waitErrs:
		return err, nil
	case <-timer.C:
		select {
		case err := <-waitErrs:
			return err, nil
		default:
		}

		r.kill(cmd)
		<-waitErrs
		return nil, &TimeoutError{Timeout: timeout}
	case <-ctx.Done():
		r.kill(cmd)
		<-waitErrs
		return nil, ctx.Err()
	}
}

func (r runner) kill(cmd *exec.Cmd) {
	if err := killProcessTree(cmd.Process.Pid); err != nil {
		r.logger.Warnf("Failed to kill process tree (%d): %s", cmd.Process.Pid, err)
	}
}

func closePipes(pipes ...*pipe) {
	for _, p := range pipes {
		p.close()
	}
}
