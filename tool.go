package shaderembed

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Stage converts the shader file found at the in path and stores the result at the out path.
type Stage interface {
	Run(ctx context.Context, in, out string) error
}

// StageFunc adapts an ordinary function to the Stage interface.
type StageFunc func(ctx context.Context, in, out string) error

// Run calls f(ctx, in, out).
func (f StageFunc) Run(ctx context.Context, in, out string) error { return f(ctx, in, out) }

// Command is a Stage backed by an external executable, like glslang or spirv-cross.
type Command struct {
	// Bin is the executable name or path.
	Bin string
	// Args are the command line arguments. The InputPlaceholder and OutputPlaceholder
	// occurrences are replaced with the stage paths.
	Args []string
	// Output receives the combined stdout and stderr of the tool once it exits.
	Output io.Writer
}

// ToolError is returned when an external tool exits with a non-zero status.
type ToolError struct {
	Bin      string
	Args     []string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("failed to run %s %s: %v", e.Bin, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// Run executes the tool and waits for it to exit.
func (cmd Command) Run(ctx context.Context, in, out string) error {
	args := cmd.expandArgs(in, out)
	bin := resolveBin(cmd.Bin)

	c := exec.CommandContext(ctx, bin, args...)
	output, err := c.CombinedOutput()
	if cmd.Output != nil && len(output) > 0 {
		// A lost tool log does not fail the stage.
		_, _ = cmd.Output.Write(output)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		terr := &ToolError{
			Bin:      bin,
			Args:     args,
			ExitCode: -1,
			Output:   output,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			terr.ExitCode = exitErr.ExitCode()
		}
		return terr
	}
	return nil
}

func (cmd Command) expandArgs(in, out string) []string {
	r := strings.NewReplacer(InputPlaceholder, in, OutputPlaceholder, out)
	args := make([]string, len(cmd.Args))
	for i, arg := range cmd.Args {
		args[i] = r.Replace(arg)
	}
	return args
}

// syncWriter serializes the writes of the concurrently running stages.
type syncWriter struct {
	mu sync.Mutex
	w  *io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *s.w == nil {
		return len(p), nil
	}
	return (*s.w).Write(p)
}
