package system

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/logging"
)

// Info identifies the host distribution.
type Info struct {
	// ID is the distributor id as reported by lsb_release -is, e.g. "Ubuntu".
	ID string
	// Release is the release number as reported by lsb_release -rs,
	// e.g. "24.04".
	Release string
}

// Inspector answers questions about the host that experiments need:
// which distribution is running and where a binary lives on PATH.
type Inspector interface {
	Distribution(ctx context.Context) (Info, error)
	LookPath(name string) (string, error)
}

// HostInspector probes the live system via lsb_release and exec.LookPath.
// Distribution info is cached for the process lifetime; it cannot change
// under a running invocation.
type HostInspector struct {
	runner Runner
	logger zerolog.Logger

	mu     sync.Mutex
	cached *Info
}

// NewHostInspector creates an inspector backed by the given runner.
func NewHostInspector(runner Runner) *HostInspector {
	return &HostInspector{
		runner: runner,
		logger: logging.GetLogger("system.inspector"),
	}
}

// Distribution reports the distributor id and release of the host.
func (h *HostInspector) Distribution(ctx context.Context) (Info, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cached != nil {
		return *h.cached, nil
	}

	id, err := h.runner.Run(ctx, "lsb_release", "-is")
	if err != nil {
		return Info{}, errors.Wrap(err, errors.ErrDistroUnknown, "failed to identify distribution")
	}

	release, err := h.runner.Run(ctx, "lsb_release", "-rs")
	if err != nil {
		return Info{}, errors.Wrap(err, errors.ErrDistroUnknown, "failed to identify distribution release")
	}

	info := Info{
		ID:      strings.TrimSpace(string(id)),
		Release: strings.TrimSpace(string(release)),
	}
	if info.ID == "" || info.Release == "" {
		return Info{}, errors.New(errors.ErrDistroUnknown, "lsb_release returned empty distribution info")
	}

	h.logger.Debug().
		Str("id", info.ID).
		Str("release", info.Release).
		Msg("Identified distribution")

	h.cached = &info
	return info, nil
}

// LookPath finds a binary on PATH. Callers fall back to a conventional
// location when the lookup fails, so the error is returned unwrapped.
func (h *HostInspector) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
