// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"gotox/internal/python"
)

// fakeTarget implements Target and TargetConfig for tests. Its environment
// lives under a temp directory with the unix venv layout.
type fakeTarget struct {
	name       string
	root       string
	basePython string
	version    python.Version
	hasVersion bool
	deps       []string
	depsErr    error
	recreate   bool

	skipSDist      bool
	allowExternals bool
}

func newFakeTarget(t *testing.T, name string) *fakeTarget {
	t.Helper()
	return &fakeTarget{
		name:       name,
		root:       filepath.Join(t.TempDir(), name),
		basePython: "python3.11",
		version:    python.Version{Major: 3, Minor: 11},
		hasVersion: true,
	}
}

func (f *fakeTarget) Name() string       { return f.name }
func (f *fakeTarget) Root() string       { return f.root }
func (f *fakeTarget) EnvPython() string  { return filepath.Join(f.root, "bin", "python") }
func (f *fakeTarget) BasePython() string { return f.basePython }
func (f *fakeTarget) Recreate() bool     { return f.recreate }

func (f *fakeTarget) WantsVersion() (python.Version, bool) {
	return f.version, f.hasVersion
}

func (f *fakeTarget) ResolveDeps() ([]string, error) {
	return f.deps, f.depsErr
}

func (f *fakeTarget) SetSkipSDist(skip bool) { f.skipSDist = skip }
func (f *fakeTarget) AllowAllExternals()     { f.allowExternals = true }

// materialize lays down interpreter and activate script, like a real venv.
func (f *fakeTarget) materialize(t *testing.T) {
	t.Helper()
	binDir := filepath.Dir(f.EnvPython())
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", binDir, err)
	}
	for _, name := range []string{"python", "activate"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// redirect lays down only the interpreter path, like a prior redirect run.
func (f *fakeTarget) redirect(t *testing.T) {
	t.Helper()
	binDir := filepath.Dir(f.EnvPython())
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", binDir, err)
	}
	if err := os.WriteFile(f.EnvPython(), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write python: %v", err)
	}
}

// fakeInterp implements Interpreter without touching any real interpreter.
type fakeInterp struct {
	path    string
	version python.Version
	dists   []python.Distribution
	err     error
}

func (f *fakeInterp) Executable() string      { return f.path }
func (f *fakeInterp) Version() python.Version { return f.version }

func (f *fakeInterp) Distributions(ctx context.Context) (iter.Seq[python.Distribution], error) {
	if f.err != nil {
		return nil, f.err
	}
	return func(yield func(python.Distribution) bool) {
		for _, d := range f.dists {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// hostPython writes a fake host interpreter binary and returns its path.
func hostPython(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "hostbin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "python")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write host python: %v", err)
	}
	return path
}
