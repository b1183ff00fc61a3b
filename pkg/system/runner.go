// Package system probes the host: it runs external commands and answers
// questions about the distribution and PATH that experiments depend on.
package system

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/logging"
)

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultTimeout bounds a single external command. Package installs can
// legitimately take minutes on a cold apt cache.
const DefaultTimeout = 5 * time.Minute

// ExecRunner runs commands through os/exec with captured output.
type ExecRunner struct {
	logger  zerolog.Logger
	timeout time.Duration
}

// NewExecRunner creates a runner with the default timeout.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger:  logging.GetLogger("system.runner"),
		timeout: DefaultTimeout,
	}
}

// Run executes the command and returns its stdout. A non-zero exit is
// wrapped as COMMAND_FAILED with the captured stderr attached as a detail.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	logging.LogCommand(name, args)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		r.logger.Error().
			Err(err).
			Str("command", name).
			Strs("args", args).
			Str("stderr", stderr.String()).
			Msg("Command execution failed")

		full := strings.Join(append([]string{name}, args...), " ")
		return stdout.Bytes(), errors.Wrapf(err, errors.ErrCommandFailed, "command %q failed", full).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}

	r.logger.Debug().
		Str("command", name).
		Strs("args", args).
		Msg("Command executed successfully")

	return stdout.Bytes(), nil
}
