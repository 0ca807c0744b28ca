// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"path/filepath"
	"runtime"
	"slices"

	"gotox/internal/python"
)

// discoverVersion resolves a base-python name on PATH and reports the version
// the interpreter itself announces. Package-level variable so tests can avoid
// spawning a real interpreter.
var discoverVersion = func(basePython string) (python.Version, bool) {
	interp, err := python.Discover(context.Background(), basePython)
	if err != nil {
		return python.Version{}, false
	}
	return interp.Version(), true
}

// Target is one test target and its environment directory. It implements
// both currentenv.Target and currentenv.TargetConfig.
type Target struct {
	name       string
	cfg        *EnvConfig
	root       string
	basePython string
	recreate   bool
}

func newTarget(name string, cfg *EnvConfig, workDir, defaultBasePython string, recreate bool) *Target {
	base := cfg.BasePython
	if base == "" {
		base = defaultBasePython
	}
	return &Target{
		name:       name,
		cfg:        cfg,
		root:       filepath.Join(workDir, name),
		basePython: base,
		recreate:   recreate,
	}
}

// Name returns the target's identity, e.g. "py311".
func (t *Target) Name() string {
	return t.name
}

// Root returns the environment's root directory.
func (t *Target) Root() string {
	return t.root
}

// EnvPython returns the expected interpreter path inside the environment,
// following the venv layout of the platform.
func (t *Target) EnvPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(t.root, "Scripts", "python.exe")
	}
	return filepath.Join(t.root, "bin", "python")
}

// BinDir returns the environment's bin (Scripts on Windows) directory.
func (t *Target) BinDir() string {
	return filepath.Dir(t.EnvPython())
}

// BasePython returns the requested interpreter name.
func (t *Target) BasePython() string {
	return t.basePython
}

// WantsVersion returns the interpreter version the target requests. A
// base-python name that pins major.minor ("python3.11") is authoritative; an
// unpinned name ("python3") is resolved by asking the named interpreter for
// its version, so unpinned targets still work in current-env mode.
func (t *Target) WantsVersion() (python.Version, bool) {
	if v, ok := python.VersionFromBasePython(t.basePython); ok {
		return v, true
	}
	return discoverVersion(t.basePython)
}

// ResolveDeps returns the target's dependency specifiers. The session's
// resolver is deliberately trivial: the configured list, verbatim.
func (t *Target) ResolveDeps() ([]string, error) {
	return slices.Clone(t.cfg.Deps), nil
}

// Recreate reports whether a forced teardown-and-rebuild was requested.
func (t *Target) Recreate() bool {
	return t.recreate
}

// SetSkipSDist implements currentenv.TargetConfig.
func (t *Target) SetSkipSDist(skip bool) {
	t.cfg.SkipSDist = skip
}

// AllowAllExternals implements currentenv.TargetConfig.
func (t *Target) AllowAllExternals() {
	t.cfg.AllowedExternals = []string{"*"}
}
