// SPDX-License-Identifier: MPL-2.0

package currentenv

import "io"

// ModeKind identifies how a gotox invocation provisions and uses target
// environments.
type ModeKind int

const (
	// ModeRegular builds real virtualenvs and runs tests in them.
	ModeRegular ModeKind = iota
	// ModeCurrentEnv redirects every target to the host interpreter.
	ModeCurrentEnv
	// ModePrintDeps skips test execution and prints resolved dependencies.
	ModePrintDeps
)

// String returns the flag-ish name of the mode.
func (k ModeKind) String() string {
	switch k {
	case ModeCurrentEnv:
		return "current-env"
	case ModePrintDeps:
		return "print-deps"
	default:
		return "regular"
	}
}

// RunMode is the requested run mode, derived once per invocation and
// immutable for the run's duration.
type RunMode struct {
	kind            ModeKind
	depsSink        io.Writer
	deprecatedAlias bool
}

// NewRunMode derives the run mode from the three mode flags. sink is the
// writer given to --print-deps-to (nil when the flag was not used), stdout is
// the sink substituted when the deprecated --print-deps-only alias is used.
//
// Flag conflicts are configuration errors and are reported before any
// target-specific work happens:
//   - the deprecated alias cannot be combined with an explicit sink
//   - current-env cannot be combined with a dependency-printing mode
func NewRunMode(currentEnv, printDepsOnly bool, sink, stdout io.Writer) (*RunMode, error) {
	if printDepsOnly && sink != nil {
		return nil, &ConfigurationError{
			Reason: "--print-deps-only cannot be used together with --print-deps-to",
		}
	}
	if currentEnv && (printDepsOnly || sink != nil) {
		return nil, &ConfigurationError{
			Reason: "--current-env cannot be used together with --print-deps-only or --print-deps-to",
		}
	}

	mode := &RunMode{kind: ModeRegular}
	switch {
	case printDepsOnly:
		mode.kind = ModePrintDeps
		mode.depsSink = stdout
		mode.deprecatedAlias = true
	case sink != nil:
		mode.kind = ModePrintDeps
		mode.depsSink = sink
	case currentEnv:
		mode.kind = ModeCurrentEnv
	}
	return mode, nil
}

// Kind returns the mode kind.
func (m *RunMode) Kind() ModeKind {
	return m.kind
}

// DepsSink returns the writer dependency specifiers are printed to.
// Only non-nil for ModePrintDeps.
func (m *RunMode) DepsSink() io.Writer {
	return m.depsSink
}

// DeprecatedAlias reports whether the mode was requested through the
// deprecated --print-deps-only flag. The environment report hook keys off
// this, matching the historical behavior of the alias.
func (m *RunMode) DeprecatedAlias() bool {
	return m.deprecatedAlias
}
