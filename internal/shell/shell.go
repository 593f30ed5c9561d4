// Package shell runs external commands for the installer.
//
// Commands run under a pseudo-terminal so tools that only report progress
// or version details to a tty (git, nvim) behave as they do interactively.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
)

// Size is the pseudo-terminal size in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

// DefaultSize is used when a runner has no size set.
var DefaultSize = Size{Rows: 24, Cols: 120}

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // appended to the current environment
}

// Cmd builds an exec.Cmd for c.
func (c Command) Cmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a finished command.
type Result struct {
	Output   string
	ExitCode int
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

// Runner runs a command to completion and collects its output.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// PTYRunner implements Runner with creack/pty.
type PTYRunner struct {
	Size Size
}

var _ Runner = (*PTYRunner)(nil)

// Run starts c in a pseudo-terminal, reads its output until the child
// closes the terminal, then waits for it. A non-zero exit returns the
// collected Result together with an *ExitError.
func (r *PTYRunner) Run(ctx context.Context, c Command) (Result, error) {
	size := r.Size
	if size.Rows == 0 || size.Cols == 0 {
		size = DefaultSize
	}
	cmd := c.Cmd(ctx)
	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("start %s: %w", c.Name, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil && !errors.Is(err, syscall.EIO) {
		// Linux reports EIO on the master once the child side is closed.
		_ = cmd.Wait()
		return Result{Output: normalize(buf.String()), ExitCode: -1}, fmt.Errorf("read %s: %w", c.Name, err)
	}
	res := Result{Output: normalize(buf.String())}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ExitError{Command: c.String(), ExitCode: res.ExitCode, Output: res.Output}
		}
		res.ExitCode = -1
		return res, fmt.Errorf("wait %s: %w", c.Name, err)
	}
	return res, nil
}

// normalize turns pty line endings into plain newlines and trims the tail.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimRight(s, "\n ")
}

// LookPath reports whether a command is on PATH.
type LookPath func(file string) (string, error)

// SystemLookPath is exec.LookPath.
var SystemLookPath LookPath = exec.LookPath
