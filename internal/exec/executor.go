package exec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

type executor struct{}

// New returns an Executor backed by os/exec.
func New() Executor {
	return &executor{}
}

func (e *executor) Run(ctx context.Context, cmd *Command) (*Result, error) {
	// The caller is responsible for validating the command and arguments.
	osCmd := exec.CommandContext(ctx, cmd.Name, cmd.Args...) //nolint:gosec // Intentional subprocess execution

	if cmd.Dir != "" {
		osCmd.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		osCmd.Env = append(os.Environ(), cmd.Env...)
	}
	if cmd.Stdin != nil {
		osCmd.Stdin = cmd.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	if cmd.Stdout != nil {
		osCmd.Stdout = cmd.Stdout
	} else {
		osCmd.Stdout = &stdoutBuf
	}

	if cmd.Stderr != nil {
		osCmd.Stderr = cmd.Stderr
	} else {
		osCmd.Stderr = &stderrBuf
	}

	err := osCmd.Run()

	// ProcessState stays nil when the command never started
	exitCode := -1
	if osCmd.ProcessState != nil {
		exitCode = osCmd.ProcessState.ExitCode()
	}

	result := &Result{
		ExitCode: exitCode,
	}
	if cmd.Stdout == nil {
		result.Stdout = stdoutBuf.Bytes()
	}
	if cmd.Stderr == nil {
		result.Stderr = stderrBuf.Bytes()
	}

	return result, err
}

func (e *executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
