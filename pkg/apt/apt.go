// Package apt manages the Debian packages that ship replacement binaries.
// It is a thin adapter over apt-get and dpkg-query; dependency resolution
// and repository handling stay the package manager's problem.
package apt

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/oxidizr/pkg/errors"
	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/system"
)

// Provider installs, removes and queries packages.
type Provider interface {
	IsInstalled(ctx context.Context, pkg string) (bool, error)
	Install(ctx context.Context, pkg string) error
	Remove(ctx context.Context, pkg string) error
	Update(ctx context.Context) error
}

// AptProvider drives apt-get and dpkg-query through a system.Runner.
type AptProvider struct {
	runner system.Runner
	logger zerolog.Logger
}

// New creates a Provider backed by the given runner.
func New(runner system.Runner) *AptProvider {
	return &AptProvider{
		runner: runner,
		logger: logging.GetLogger("apt"),
	}
}

// IsInstalled reports whether pkg is installed. dpkg-query exits non-zero
// for unknown or not-installed packages, which is an answer, not an error.
func (p *AptProvider) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	if _, err := p.runner.Run(ctx, "dpkg-query", "-s", pkg); err != nil {
		return false, nil
	}
	return true, nil
}

// Install installs pkg non-interactively.
func (p *AptProvider) Install(ctx context.Context, pkg string) error {
	p.logger.Info().Str("package", pkg).Msg("Installing package")

	if _, err := p.runner.Run(ctx, "apt-get", "install", "-y", pkg); err != nil {
		return errors.Wrapf(err, errors.ErrPackageUnavailable, "failed to install package %s", pkg)
	}
	return nil
}

// Remove removes pkg non-interactively.
func (p *AptProvider) Remove(ctx context.Context, pkg string) error {
	p.logger.Info().Str("package", pkg).Msg("Removing package")

	if _, err := p.runner.Run(ctx, "apt-get", "remove", "-y", pkg); err != nil {
		return errors.Wrapf(err, errors.ErrPackageUnavailable, "failed to remove package %s", pkg)
	}
	return nil
}

// Update refreshes the package lists.
func (p *AptProvider) Update(ctx context.Context) error {
	p.logger.Info().Msg("Updating package lists")

	if _, err := p.runner.Run(ctx, "apt-get", "update"); err != nil {
		return errors.Wrap(err, errors.ErrPackageUnavailable, "failed to update package lists")
	}
	return nil
}
