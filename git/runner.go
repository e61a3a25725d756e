package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes a command in a directory and returns its stdout.
// A non-zero exit must be reported as an error carrying the captured output.
type CommandRunner interface {
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec. It is the default runner.
type ExecRunner struct{}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and returns trimmed stdout. On failure the error
// message carries stderr (or stdout when stderr is empty) so callers can
// surface the process diagnostics.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		if errMsg == "" {
			errMsg = err.Error()
		}
		return strings.TrimSpace(stdout.String()), fmt.Errorf("%s", errMsg)
	}

	return strings.TrimRight(stdout.String(), "\n"), nil
}

// MockRunner records invocations and replays canned responses, keyed by the
// joined argument string. Used in tests that must not touch a real repo.
type MockRunner struct {
	// Responses maps "name arg1 arg2 ..." to the stdout to return.
	Responses map[string]string

	// Errors maps the same keys to errors to return instead.
	Errors map[string]error

	// Calls records every invocation in order.
	Calls []string
}

// NewMockRunner returns an empty mock runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string]string),
		Errors:    make(map[string]error),
	}
}

// Run implements CommandRunner.
func (r *MockRunner) Run(dir, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	r.Calls = append(r.Calls, key)
	if err, ok := r.Errors[key]; ok {
		return "", err
	}
	if out, ok := r.Responses[key]; ok {
		return out, nil
	}
	return "", nil
}
