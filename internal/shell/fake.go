package shell

import (
	"context"
	"fmt"
	"sync"
)

// FakeResponse is the scripted outcome of one command line.
type FakeResponse struct {
	Result Result
	Err    error
}

// Fake is a Runner for tests. Responses are keyed by Command.String();
// unknown commands fail with exit status 127.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse
	Calls     []Command
}

var _ Runner = (*Fake)(nil)

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]FakeResponse)}
}

// On scripts a successful output for the command line.
func (f *Fake) On(line, output string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[line] = FakeResponse{Result: Result{Output: output}}
	return f
}

// Fail scripts a failing exit code for the command line.
func (f *Fake) Fail(line string, code int) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[line] = FakeResponse{
		Result: Result{ExitCode: code},
		Err:    &ExitError{Command: line, ExitCode: code},
	}
	return f
}

func (f *Fake) Run(ctx context.Context, c Command) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, err
	}
	resp, ok := f.Responses[c.String()]
	if !ok {
		return Result{ExitCode: 127}, &ExitError{Command: c.String(), ExitCode: 127, Output: fmt.Sprintf("%s: not found", c.Name)}
	}
	return resp.Result, resp.Err
}

// Lines returns the recorded command lines.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}
