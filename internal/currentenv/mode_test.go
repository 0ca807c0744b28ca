// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewRunModeRegular(t *testing.T) {
	var stdout bytes.Buffer
	mode, err := NewRunMode(false, false, nil, &stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	if mode.Kind() != ModeRegular {
		t.Errorf("Kind() = %v, want regular", mode.Kind())
	}
	if mode.DepsSink() != nil {
		t.Error("DepsSink() should be nil in regular mode")
	}
}

func TestNewRunModeCurrentEnv(t *testing.T) {
	var stdout bytes.Buffer
	mode, err := NewRunMode(true, false, nil, &stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	if mode.Kind() != ModeCurrentEnv {
		t.Errorf("Kind() = %v, want current-env", mode.Kind())
	}
}

func TestNewRunModePrintDeps(t *testing.T) {
	var stdout, sink bytes.Buffer
	mode, err := NewRunMode(false, false, &sink, &stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	if mode.Kind() != ModePrintDeps {
		t.Errorf("Kind() = %v, want print-deps", mode.Kind())
	}
	if mode.DepsSink() != &sink {
		t.Error("DepsSink() should be the explicit sink")
	}
	if mode.DeprecatedAlias() {
		t.Error("DeprecatedAlias() = true for explicit sink")
	}
}

func TestNewRunModeDeprecatedAlias(t *testing.T) {
	var stdout bytes.Buffer
	mode, err := NewRunMode(false, true, nil, &stdout)
	if err != nil {
		t.Fatalf("NewRunMode() error: %v", err)
	}
	if mode.Kind() != ModePrintDeps {
		t.Errorf("Kind() = %v, want print-deps", mode.Kind())
	}
	if mode.DepsSink() != &stdout {
		t.Error("DepsSink() should fall back to stdout for the deprecated alias")
	}
	if !mode.DeprecatedAlias() {
		t.Error("DeprecatedAlias() = false, want true")
	}
}

func TestNewRunModeAliasConflict(t *testing.T) {
	var stdout, sink bytes.Buffer
	_, err := NewRunMode(false, true, &sink, &stdout)

	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("error = %v (%T), want *ConfigurationError", err, err)
	}
}

func TestNewRunModeCurrentEnvConflict(t *testing.T) {
	var stdout, sink bytes.Buffer

	if _, err := NewRunMode(true, false, &sink, &stdout); err == nil {
		t.Error("combining --current-env with --print-deps-to should fail")
	}
	if _, err := NewRunMode(true, true, nil, &stdout); err == nil {
		t.Error("combining --current-env with --print-deps-only should fail")
	}
}

func TestModeKindString(t *testing.T) {
	cases := map[ModeKind]string{
		ModeRegular:    "regular",
		ModeCurrentEnv: "current-env",
		ModePrintDeps:  "print-deps",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("ModeKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
