/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor.go
Description: Process executor for the external ANTLR grammar compiler. Runs
"java antlr.Tool <grammar>" (or a configured equivalent) with the CLASSPATH the
tool needs, captures its combined output and enforces a per-run timeout.
*/

package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kleascm/srccat/pkg/interfaces"
)

const (
	DefaultCommand = "java"
	DefaultTimeout = 2 * time.Minute
)

// DefaultArgs invokes the ANTLR 2 tool class
var DefaultArgs = []string{"antlr.Tool"}

// AntlrRunner implements interfaces.ToolRunner
type AntlrRunner struct {
	Command   string        // Executable, "java" by default
	Args      []string      // Arguments placed before the grammar path
	Classpath string        // CLASSPATH for the tool; empty inherits the environment
	WorkDir   string        // Directory the tool writes its outputs into
	Timeout   time.Duration // Per-grammar limit, DefaultTimeout when zero
	Env       []string      // Extra KEY=VALUE pairs
}

// NewAntlrRunner returns a runner with the default command line
func NewAntlrRunner() *AntlrRunner {
	return &AntlrRunner{
		Command: DefaultCommand,
		Args:    append([]string(nil), DefaultArgs...),
		Timeout: DefaultTimeout,
	}
}

// CommandLine returns the argv used for source
func (r *AntlrRunner) CommandLine(source string) []string {
	command := r.Command
	if command == "" {
		command = DefaultCommand
	}
	argv := append([]string{command}, r.Args...)
	return append(argv, source)
}

// environ builds the child environment with CLASSPATH propagated
func (r *AntlrRunner) environ() []string {
	env := os.Environ()
	if r.Classpath != "" {
		filtered := env[:0:0]
		for _, kv := range env {
			if !strings.HasPrefix(kv, "CLASSPATH=") {
				filtered = append(filtered, kv)
			}
		}
		env = append(filtered, "CLASSPATH="+r.Classpath)
	}
	return append(env, r.Env...)
}

// Run compiles one grammar. A non-zero exit status is returned as an error
// together with the result holding the tool output.
func (r *AntlrRunner) Run(ctx context.Context, source string) (*interfaces.ToolResult, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := r.CommandLine(source)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = r.environ()
	cmd.Dir = r.WorkDir
	// Grandchildren holding the output pipe must not outlive the timeout.
	cmd.WaitDelay = time.Second

	result := &interfaces.ToolResult{Source: source}

	startTime := time.Now()
	output, err := cmd.CombinedOutput()
	result.Duration = time.Since(startTime)
	result.Output = output
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%s: timed out after %s", source, timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, fmt.Errorf("%s: %s exited with status %d: %s",
				source, argv[0], result.ExitCode, strings.TrimSpace(string(output)))
		}
		return result, fmt.Errorf("%s: failed to run %s: %w", source, argv[0], err)
	}
	return result, nil
}
