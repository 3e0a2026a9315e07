package finch

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNotFound = errors.New("executable file not found in $PATH")

// mockExit carries a fake exit code out of MockCommand.Run.
type mockExit struct{ code int }

func (e mockExit) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e mockExit) ExitCode() int { return e.code }

// MockResponse scripts the outcome of one command invocation.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	StartErr error
}

// MockCommand is a scripted Command that records nothing and replays a
// MockResponse.
type MockCommand struct {
	response MockResponse
	stdout   io.Writer
	stderr   io.Writer
}

func (c *MockCommand) Output() ([]byte, error) {
	if c.response.ExitCode != 0 {
		return []byte(c.response.Stdout), mockExit{c.response.ExitCode}
	}
	return []byte(c.response.Stdout), nil
}

func (c *MockCommand) CombinedOutput() ([]byte, error) {
	out := c.response.Stdout + c.response.Stderr
	if c.response.ExitCode != 0 {
		return []byte(out), mockExit{c.response.ExitCode}
	}
	return []byte(out), nil
}

func (c *MockCommand) Run() error {
	if c.response.StartErr != nil {
		return c.response.StartErr
	}
	if c.stdout != nil {
		io.WriteString(c.stdout, c.response.Stdout)
	}
	if c.stderr != nil {
		io.WriteString(c.stderr, c.response.Stderr)
	}
	if c.response.ExitCode != 0 {
		return mockExit{c.response.ExitCode}
	}
	return nil
}

func (c *MockCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *MockCommand) SetStderr(w io.Writer) { c.stderr = w }
func (c *MockCommand) SetStdin(r io.Reader)  {}

// MockExecutor records every command it creates and replays scripted
// responses. Responses are keyed by the full command line; unmatched
// commands get the Default response.
type MockExecutor struct {
	Responses map[string]MockResponse
	Default   MockResponse
	Commands  []ExecSpec
}

func (m *MockExecutor) Command(name string, args []string, validators ...ExecValidator) (Command, error) {
	spec := ExecSpec{Name: name, Args: args}
	for _, validate := range validators {
		if err := validate(spec); err != nil {
			return nil, err
		}
	}
	m.Commands = append(m.Commands, spec)

	key := commandLine(name, args)
	if resp, ok := m.Responses[key]; ok {
		return &MockCommand{response: resp}, nil
	}
	return &MockCommand{response: m.Default}, nil
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// CountCommand returns how many recorded commands start with the given
// argument prefix.
func (m *MockExecutor) CountCommand(name string, prefix ...string) int {
	count := 0
	for _, spec := range m.Commands {
		if spec.Name != name || len(spec.Args) < len(prefix) {
			continue
		}
		matched := true
		for i, p := range prefix {
			if spec.Args[i] != p {
				matched = false
				break
			}
		}
		if matched {
			count++
		}
	}
	return count
}

// HasCommand reports whether any recorded command matches the full line.
func (m *MockExecutor) HasCommand(name string, args ...string) bool {
	want := commandLine(name, args)
	for _, spec := range m.Commands {
		if commandLine(spec.Name, spec.Args) == want {
			return true
		}
	}
	return false
}
