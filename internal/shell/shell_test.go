package shell

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// skipWithoutPTY skips when the sandbox cannot allocate a terminal.
func skipWithoutPTY(t *testing.T, err error) {
	t.Helper()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		t.Skipf("pty unavailable: %v", err)
	}
}

func TestPTYRunnerCollectsOutput(t *testing.T) {
	requireSh(t)
	r := &PTYRunner{}
	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo one; echo two"}})
	skipWithoutPTY(t, err)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", res.Output)
	assert.Equal(t, 0, res.ExitCode)
}

func TestPTYRunnerExitCode(t *testing.T) {
	requireSh(t)
	r := &PTYRunner{Size: Size{Rows: 10, Cols: 40}}
	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo nope; exit 3"}})
	require.Error(t, err)
	skipWithoutPTY(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "nope", res.Output)
}

func TestPTYRunnerMissingBinary(t *testing.T) {
	r := &PTYRunner{}
	_, err := r.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	assert.Error(t, err)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "nvim --version", Command{Name: "nvim", Args: []string{"--version"}}.String())
	assert.Equal(t, "git", Command{Name: "git"}.String())
}

func TestFake(t *testing.T) {
	f := NewFake().On("nvim --version", "NVIM v0.10.0").Fail("git clone x", 128)

	res, err := f.Run(context.Background(), Command{Name: "nvim", Args: []string{"--version"}})
	require.NoError(t, err)
	assert.Equal(t, "NVIM v0.10.0", res.Output)

	_, err = f.Run(context.Background(), Command{Name: "git", Args: []string{"clone", "x"}})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 128, exitErr.ExitCode)

	res, err = f.Run(context.Background(), Command{Name: "missing"})
	assert.Error(t, err)
	assert.Equal(t, 127, res.ExitCode)

	assert.Equal(t, []string{"nvim --version", "git clone x", "missing"}, f.Lines())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", normalize("a\r\nb\r\n"))
	assert.Equal(t, "x\ny", normalize("x\ry \n"))
}
