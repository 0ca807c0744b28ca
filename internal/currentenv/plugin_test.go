// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotox/internal/python"
)

func currentEnvPlugin(t *testing.T, interp Interpreter, opts ...PluginOption) *Plugin {
	t.Helper()
	mode, err := NewRunMode(true, false, nil, os.Stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	return NewPlugin(mode, interp, opts...)
}

func printDepsPlugin(t *testing.T, interp Interpreter, sink *bytes.Buffer) *Plugin {
	t.Helper()
	mode, err := NewRunMode(false, false, sink, os.Stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	return NewPlugin(mode, interp)
}

func regularPlugin(t *testing.T) *Plugin {
	t.Helper()
	mode, err := NewRunMode(false, false, nil, os.Stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	return NewPlugin(mode, nil)
}

func TestEnvCreateCurrentEnvIdempotent(t *testing.T) {
	target := newFakeTarget(t, "py311")
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11, Micro: 4}}
	plugin := currentEnvPlugin(t, interp)

	for i := 0; i < 2; i++ {
		outcome, err := plugin.EnvCreate(target)
		if err != nil {
			t.Fatalf("EnvCreate() call %d error: %v", i+1, err)
		}
		if !outcome.Handled {
			t.Errorf("EnvCreate() call %d outcome = deferred, want handled", i+1)
		}
		if shape := Inspect(target); shape != ShapeRedirect {
			t.Errorf("shape after call %d = %v, want redirect", i+1, shape)
		}
	}
}

func TestEnvCreateCurrentEnvRefusesMaterialized(t *testing.T) {
	// A real virtualenv is expensive to rebuild, so replacing it with a
	// redirect requires an explicit recreate; without one the creation hook
	// must fail before touching the directory tree.
	target := newFakeTarget(t, "py311")
	target.materialize(t)
	marker := filepath.Join(target.Root(), "lib", "site-packages", "keep.py")
	if err := os.MkdirAll(filepath.Dir(marker), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(marker, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := currentEnvPlugin(t, interp)

	_, err := plugin.EnvCreate(target)

	var stale *StaleMaterializedError
	if !errors.As(err, &stale) {
		t.Fatalf("error = %v (%T), want *StaleMaterializedError", err, err)
	}
	if shape := Inspect(target); shape != ShapeMaterialized {
		t.Errorf("shape after refusal = %v, want materialized (untouched)", shape)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("site-packages content was touched: %v", err)
	}

	target.recreate = true
	outcome, err := plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() with recreate error: %v", err)
	}
	if !outcome.Handled {
		t.Error("EnvCreate() with recreate outcome = deferred, want handled")
	}
	if shape := Inspect(target); shape != ShapeRedirect {
		t.Errorf("shape after recreate = %v, want redirect", shape)
	}
}

func TestEnvCreateVersionMismatch(t *testing.T) {
	target := newFakeTarget(t, "py311")
	target.version = python.Version{Major: 3, Minor: 11}
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 9, Micro: 18}}
	plugin := currentEnvPlugin(t, interp)

	_, err := plugin.EnvCreate(target)

	var mismatch *python.InterpreterMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v (%T), want *InterpreterMismatchError", err, err)
	}
	if mismatch.Requested != (python.Version{Major: 3, Minor: 11}) {
		t.Errorf("Requested = %v, want 3.11.0", mismatch.Requested)
	}
	if mismatch.Current != (python.Version{Major: 3, Minor: 9, Micro: 18}) {
		t.Errorf("Current = %v, want 3.9.18", mismatch.Current)
	}
	if shape := Inspect(target); shape != ShapeAbsent {
		t.Errorf("shape after mismatch = %v, want absent (untouched)", shape)
	}
}

func TestEnvCreateUnknownVersion(t *testing.T) {
	target := newFakeTarget(t, "py3")
	target.basePython = "python3"
	target.hasVersion = false
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := currentEnvPlugin(t, interp)

	_, err := plugin.EnvCreate(target)

	var notFound *python.InterpreterNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v (%T), want *InterpreterNotFoundError", err, err)
	}
	if notFound.BasePython != "python3" {
		t.Errorf("BasePython = %q, want python3", notFound.BasePython)
	}
}

func TestEnvCreateRegularRefusesRedirect(t *testing.T) {
	// A redirect left by a current-env/print-deps run must not be silently
	// discarded; only an explicit recreate clears it.
	plugin := regularPlugin(t)
	target := newFakeTarget(t, "py311")
	target.redirect(t)

	_, err := plugin.EnvCreate(target)

	var stale *StaleRedirectError
	if !errors.As(err, &stale) {
		t.Fatalf("error = %v (%T), want *StaleRedirectError", err, err)
	}
	if shape := Inspect(target); shape != ShapeRedirect {
		t.Errorf("shape after refusal = %v, want redirect (untouched)", shape)
	}

	target.recreate = true
	outcome, err := plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() with recreate error: %v", err)
	}
	if outcome.Handled {
		t.Error("EnvCreate() with recreate outcome = handled, want deferred")
	}
	if shape := Inspect(target); shape != ShapeAbsent {
		t.Errorf("shape after recreate = %v, want absent", shape)
	}
}

func TestEnvCreateRegularDefers(t *testing.T) {
	plugin := regularPlugin(t)

	// A fully materialized environment is kept as-is.
	target := newFakeTarget(t, "py312")
	target.materialize(t)
	outcome, err := plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() error: %v", err)
	}
	if outcome.Handled {
		t.Error("EnvCreate() outcome = handled, want deferred")
	}
	if shape := Inspect(target); shape != ShapeMaterialized {
		t.Errorf("shape = %v, want materialized", shape)
	}

	// With recreate it is wiped so the host rebuilds from scratch.
	target.recreate = true
	outcome, err = plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() with recreate error: %v", err)
	}
	if outcome.Handled {
		t.Error("EnvCreate() with recreate outcome = handled, want deferred")
	}
	if shape := Inspect(target); shape != ShapeAbsent {
		t.Errorf("shape after recreate = %v, want absent", shape)
	}
}

func TestPrintDepsEndToEnd(t *testing.T) {
	var sink bytes.Buffer
	target := newFakeTarget(t, "py311")
	target.deps = []string{"pytest", "requests>=2", "tomli; python_version<'3.11'"}
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := printDepsPlugin(t, interp, &sink)

	outcome, err := plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() error: %v", err)
	}
	if !outcome.Handled {
		t.Error("EnvCreate() outcome = deferred, want handled")
	}
	if shape := Inspect(target); shape != ShapeRedirect {
		t.Errorf("shape after provisioning = %v, want redirect", shape)
	}

	outcome, err = plugin.RunTests(target)
	if err != nil {
		t.Fatalf("RunTests() error: %v", err)
	}
	if !outcome.Handled {
		t.Error("RunTests() outcome = deferred, want handled (no real test run)")
	}
	want := "pytest\nrequests>=2\ntomli; python_version<'3.11'\n"
	if sink.String() != want {
		t.Errorf("sink = %q, want %q", sink.String(), want)
	}
}

func TestPrintDepsTrustsExistingEnvironment(t *testing.T) {
	// When any environment already exists the fallback redirect is skipped
	// and the interpreter version is deliberately not re-verified.
	var sink bytes.Buffer
	target := newFakeTarget(t, "py311")
	target.materialize(t)
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 9}}
	plugin := printDepsPlugin(t, interp, &sink)

	outcome, err := plugin.EnvCreate(target)
	if err != nil {
		t.Fatalf("EnvCreate() error: %v", err)
	}
	if !outcome.Handled {
		t.Error("EnvCreate() outcome = deferred, want handled")
	}
	if shape := Inspect(target); shape != ShapeMaterialized {
		t.Errorf("shape = %v, want materialized (untouched)", shape)
	}
}

func TestInstallDepsSuppressed(t *testing.T) {
	target := newFakeTarget(t, "py311")
	target.redirect(t)
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := currentEnvPlugin(t, interp)

	outcome, err := plugin.InstallDeps(target)
	if err != nil {
		t.Fatalf("InstallDeps() error: %v", err)
	}
	if !outcome.Handled {
		t.Error("InstallDeps() outcome = deferred, want handled (nothing installed)")
	}
}

func TestInstallDepsRegularDefers(t *testing.T) {
	target := newFakeTarget(t, "py311")
	target.materialize(t)
	plugin := regularPlugin(t)

	outcome, err := plugin.InstallDeps(target)
	if err != nil {
		t.Fatalf("InstallDeps() error: %v", err)
	}
	if outcome.Handled {
		t.Error("InstallDeps() outcome = handled, want deferred")
	}
}

func TestGuardRunsAtEveryLifecyclePoint(t *testing.T) {
	// A regular run against a stale redirect must fail at every lifecycle
	// point: creation mutates the tree, and package build, dependency
	// install and test run can each execute on their own after a creation
	// that succeeded in a now-stale state.
	target := newFakeTarget(t, "py311")
	target.redirect(t)
	plugin := regularPlugin(t)

	hooks := map[string]func(Target) (Outcome, error){
		"EnvCreate":    plugin.EnvCreate,
		"PackageBuild": plugin.PackageBuild,
		"InstallDeps":  plugin.InstallDeps,
		"RunTests":     plugin.RunTests,
	}
	for name, hook := range hooks {
		if _, err := hook(target); err == nil {
			t.Errorf("%s() on stale redirect should fail", name)
		}
	}

	target.recreate = true
	for name, hook := range hooks {
		if _, err := hook(target); err != nil {
			t.Errorf("%s() with recreate error: %v", name, err)
		}
	}
}

func TestRunTestsRegularDefers(t *testing.T) {
	target := newFakeTarget(t, "py311")
	target.materialize(t)
	plugin := regularPlugin(t)

	outcome, err := plugin.RunTests(target)
	if err != nil {
		t.Fatalf("RunTests() error: %v", err)
	}
	if outcome.Handled {
		t.Error("RunTests() outcome = handled, want deferred")
	}
}

func TestRunTestsResolverError(t *testing.T) {
	var sink bytes.Buffer
	target := newFakeTarget(t, "py311")
	target.redirect(t)
	target.depsErr = errors.New("resolver exploded")
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := printDepsPlugin(t, interp, &sink)

	if _, err := plugin.RunTests(target); err == nil || !strings.Contains(err.Error(), "resolver exploded") {
		t.Errorf("RunTests() error = %v, want wrapped resolver error", err)
	}
}

func TestCleanupRemovesOnlyRedirects(t *testing.T) {
	redirected := newFakeTarget(t, "py311")
	redirected.redirect(t)
	materialized := newFakeTarget(t, "py312")
	materialized.materialize(t)
	interp := &fakeInterp{path: hostPython(t), version: python.Version{Major: 3, Minor: 11}}
	plugin := currentEnvPlugin(t, interp)

	plugin.Cleanup([]Target{redirected, materialized})

	if shape := Inspect(redirected); shape != ShapeAbsent {
		t.Errorf("redirect target shape after cleanup = %v, want absent", shape)
	}
	if shape := Inspect(materialized); shape != ShapeMaterialized {
		t.Errorf("materialized target shape after cleanup = %v, want materialized", shape)
	}
}

func TestConfigure(t *testing.T) {
	interp := &fakeInterp{path: "/usr/bin/python3", version: python.Version{Major: 3, Minor: 11}}

	// Non-regular modes force skip-sdist and allow-all-externals.
	target := newFakeTarget(t, "py311")
	currentEnvPlugin(t, interp).Configure([]TargetConfig{target})
	if !target.skipSDist {
		t.Error("current-env Configure() should set skip-sdist")
	}
	if !target.allowExternals {
		t.Error("current-env Configure() should allow all externals")
	}

	// Regular mode leaves the configuration alone.
	target = newFakeTarget(t, "py312")
	regularPlugin(t).Configure([]TargetConfig{target})
	if target.skipSDist || target.allowExternals {
		t.Error("regular Configure() should not touch target configuration")
	}
}
