package testutil

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/arthur-debert/oxidizr/pkg/system"
)

// FakeRunner records every command it is asked to run and replies with
// canned output. Commands are keyed by the full command line, e.g.
// "apt-get install -y rust-coreutils".
type FakeRunner struct {
	mu       sync.Mutex
	commands []string
	stdout   map[string]string
	errs     map[string]error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		stdout: make(map[string]string),
		errs:   make(map[string]error),
	}
}

// Respond registers canned stdout for a full command line.
func (r *FakeRunner) Respond(commandLine, stdout string) *FakeRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stdout[commandLine] = stdout
	return r
}

// Fail registers a canned error for a full command line.
func (r *FakeRunner) Fail(commandLine string, err error) *FakeRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[commandLine] = err
	return r
}

// Run implements system.Runner.
func (r *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	full := strings.Join(append([]string{name}, args...), " ")

	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, full)
	if err, ok := r.errs[full]; ok {
		return nil, err
	}
	return []byte(r.stdout[full]), nil
}

// Commands returns every command line run so far, in order.
func (r *FakeRunner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.commands))
	copy(out, r.commands)
	return out
}

// Ran reports whether the exact command line was run.
func (r *FakeRunner) Ran(commandLine string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.commands {
		if c == commandLine {
			return true
		}
	}
	return false
}

// FakeProvider implements apt.Provider against an in-memory package set.
type FakeProvider struct {
	mu        sync.Mutex
	installed map[string]bool

	InstallErr error
	RemoveErr  error
	UpdateErr  error

	installs []string
	removals []string
	updates  int
}

// NewFakeProvider creates a provider with the given packages already
// installed.
func NewFakeProvider(installed ...string) *FakeProvider {
	p := &FakeProvider{installed: make(map[string]bool)}
	for _, pkg := range installed {
		p.installed[pkg] = true
	}
	return p
}

// IsInstalled implements apt.Provider.
func (p *FakeProvider) IsInstalled(_ context.Context, pkg string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.installed[pkg], nil
}

// Install implements apt.Provider.
func (p *FakeProvider) Install(_ context.Context, pkg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.InstallErr != nil {
		return p.InstallErr
	}
	p.installed[pkg] = true
	p.installs = append(p.installs, pkg)
	return nil
}

// Remove implements apt.Provider.
func (p *FakeProvider) Remove(_ context.Context, pkg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.RemoveErr != nil {
		return p.RemoveErr
	}
	delete(p.installed, pkg)
	p.removals = append(p.removals, pkg)
	return nil
}

// Update implements apt.Provider.
func (p *FakeProvider) Update(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.UpdateErr != nil {
		return p.UpdateErr
	}
	p.updates++
	return nil
}

// Installs returns the packages installed through this provider, in order.
func (p *FakeProvider) Installs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.installs))
	copy(out, p.installs)
	return out
}

// Removals returns the packages removed through this provider, in order.
func (p *FakeProvider) Removals() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.removals))
	copy(out, p.removals)
	return out
}

// Updates returns how many times the package lists were refreshed.
func (p *FakeProvider) Updates() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.updates
}

// StubInspector implements system.Inspector with fixed answers.
type StubInspector struct {
	Info    system.Info
	InfoErr error

	// PathEntries answers LookPath; a missing key reports the binary as
	// not found, which sends resolvers to their fallback location.
	PathEntries map[string]string
}

// NewStubInspector creates an inspector reporting the given distribution.
func NewStubInspector(id, release string) *StubInspector {
	return &StubInspector{
		Info:        system.Info{ID: id, Release: release},
		PathEntries: make(map[string]string),
	}
}

// Distribution implements system.Inspector.
func (s *StubInspector) Distribution(_ context.Context) (system.Info, error) {
	if s.InfoErr != nil {
		return system.Info{}, s.InfoErr
	}
	return s.Info, nil
}

// LookPath implements system.Inspector.
func (s *StubInspector) LookPath(name string) (string, error) {
	if path, ok := s.PathEntries[name]; ok {
		return path, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}
