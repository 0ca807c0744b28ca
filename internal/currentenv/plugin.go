// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"fmt"
	"io"

	"gotox/internal/python"

	"github.com/charmbracelet/log"
)

type (
	// Outcome is a hook's answer to the host: either the step was handled
	// here and the host should skip its default behavior, or the plugin
	// defers and the host proceeds normally. Reason is for logging only.
	Outcome struct {
		Handled bool
		Reason  string
	}

	// Plugin is the mode controller. It orchestrates, for each lifecycle
	// hook the host exposes, what the inspector, guard and mutator should
	// do. The only state carried across hooks is the immutable RunMode and
	// host interpreter; everything else is re-read from the filesystem.
	Plugin struct {
		mode   *RunMode
		interp Interpreter

		// cleanupSupported records whether the host calls Cleanup at
		// session end. It only affects stale-redirect error wording.
		cleanupSupported bool

		logger *log.Logger
	}

	// PluginOption configures optional Plugin behavior.
	PluginOption func(*Plugin)
)

// HandledOutcome reports the step as handled; the host skips its default.
func HandledOutcome(reason string) Outcome {
	return Outcome{Handled: true, Reason: reason}
}

// DeferredOutcome passes the step through to the host's default behavior.
func DeferredOutcome(reason string) Outcome {
	return Outcome{Reason: reason}
}

// WithLogger sets the plugin's logger. The default discards everything.
func WithLogger(logger *log.Logger) PluginOption {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// WithoutSessionCleanup marks the host as not exposing a session-cleanup
// hook, which changes the remediation wording of stale-redirect errors.
func WithoutSessionCleanup() PluginOption {
	return func(p *Plugin) {
		p.cleanupSupported = false
	}
}

// NewPlugin builds the mode controller. interp may be nil in ModeRegular,
// where the host interpreter is never consulted.
func NewPlugin(mode *RunMode, interp Interpreter, opts ...PluginOption) *Plugin {
	p := &Plugin{
		mode:             mode,
		interp:           interp,
		cleanupSupported: true,
		logger:           log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Mode returns the immutable run mode the plugin was built with.
func (p *Plugin) Mode() *RunMode {
	return p.mode
}

// Configure adjusts target configuration once at startup. Outside regular
// mode nothing is installed into a sandboxed environment, so the source
// distribution build is skipped and external commands are allowed on every
// target.
func (p *Plugin) Configure(configs []TargetConfig) {
	if p.mode.Kind() == ModeRegular {
		return
	}
	for _, cfg := range configs {
		cfg.SetSkipSDist(true)
		cfg.AllowAllExternals()
	}
}

// EnvCreate is the provisioning hook. The compatibility guard runs first,
// before any mutation: an on-disk shape left by a different mode must surface
// as a stale-state error with its remediation here, never be silently
// discarded by the provisioning that follows.
//
// Once the guard passes, regular mode defers to the host, first destroying
// partial leftovers and recreate-requested environments (a half-built
// environment is worse than none). Current-env mode verifies the interpreter
// version and replaces the remains with a redirect. Print-deps mode is
// content with any existing environment; only when none exists does it fall
// back to the current-env redirect, since the host needs some interpreter to
// resolve dependencies against.
func (p *Plugin) EnvCreate(t Target) (Outcome, error) {
	if err := p.guard(t); err != nil {
		return Outcome{}, err
	}
	shape := Inspect(t)

	switch p.mode.Kind() {
	case ModeRegular:
		if t.Recreate() || shape != ShapeMaterialized {
			Destroy(t)
		}
		return DeferredOutcome("regular provisioning"), nil

	case ModePrintDeps:
		if shape != ShapeAbsent {
			// Whatever exists is trusted as usable for dependency
			// resolution; see CheckCompatible for the staleness rules.
			return HandledOutcome("existing environment suffices for dependency resolution"), nil
		}
	}

	if err := p.checkInterpreter(t); err != nil {
		return Outcome{}, err
	}

	Destroy(t)
	if err := CreateRedirect(t, p.interp.Executable()); err != nil {
		return Outcome{}, err
	}
	p.logger.Debug("created redirect environment",
		"target", t.Name(), "python", p.interp.Executable())
	return HandledOutcome("redirected to host interpreter"), nil
}

// checkInterpreter verifies the host interpreter matches the target's
// requested version at major.minor granularity.
func (p *Plugin) checkInterpreter(t Target) error {
	want, ok := t.WantsVersion()
	if !ok {
		return &python.InterpreterNotFoundError{BasePython: t.BasePython()}
	}
	if current := p.interp.Version(); !want.MatchesMinor(current) {
		return &python.InterpreterMismatchError{Requested: want, Current: current}
	}
	return nil
}

// PackageBuild is the package/build-step hook. It exists to fail early on
// stale environments; the build itself is always the host's.
func (p *Plugin) PackageBuild(t Target) (Outcome, error) {
	if err := p.guard(t); err != nil {
		return Outcome{}, err
	}
	return DeferredOutcome("package build"), nil
}

// InstallDeps is the dependency-installation hook. Outside regular mode
// nothing is installed.
func (p *Plugin) InstallDeps(t Target) (Outcome, error) {
	if err := p.guard(t); err != nil {
		return Outcome{}, err
	}
	if p.mode.Kind() == ModeRegular {
		return DeferredOutcome("regular dependency install"), nil
	}
	return HandledOutcome("no dependencies installed"), nil
}

// RunTests is the test-execution hook. In print-deps mode it writes the
// resolved dependency list to the configured sink, one specifier per line,
// instead of running anything.
func (p *Plugin) RunTests(t Target) (Outcome, error) {
	if err := p.guard(t); err != nil {
		return Outcome{}, err
	}
	if p.mode.Kind() != ModePrintDeps {
		return DeferredOutcome("run test commands"), nil
	}

	deps, err := t.ResolveDeps()
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve dependencies of %s: %w", t.Name(), err)
	}
	sink := p.mode.DepsSink()
	for _, dep := range deps {
		if _, err := fmt.Fprintln(sink, dep); err != nil {
			return Outcome{}, fmt.Errorf("write dependencies of %s: %w", t.Name(), err)
		}
	}
	return HandledOutcome("dependencies printed"), nil
}

// Cleanup removes every redirect environment at session end so it cannot
// collide with a later regular run. Real virtualenvs are never touched:
// recreating them is expensive. Best-effort only; a killed process skips
// this, which is exactly what CheckCompatible detects on the next run.
func (p *Plugin) Cleanup(targets []Target) {
	for _, t := range targets {
		if Inspect(t) != ShapeRedirect {
			continue
		}
		Destroy(t)
		p.logger.Debug("removed redirect environment", "target", t.Name())
	}
}

// guard runs the compatibility check for the target's current shape.
func (p *Plugin) guard(t Target) error {
	return CheckCompatible(p.mode.Kind(), Inspect(t), t.Recreate(), p.cleanupSupported)
}
