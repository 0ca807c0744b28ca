// SPDX-License-Identifier: MPL-2.0

package python

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os/exec"
	"strings"
)

const (
	versionProbe      = `import sys; print("%d.%d.%d" % sys.version_info[:3])`
	sitePackagesProbe = `import json, site; dirs = list(site.getsitepackages()); dirs.append(site.getusersitepackages()); print(json.dumps(dirs))`
)

// runPython executes `path -c code` and returns trimmed stdout. Package-level
// variable so tests can substitute canned interpreter output.
var runPython = func(ctx context.Context, path, code string) (string, error) {
	out, err := exec.CommandContext(ctx, path, "-c", code).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Interpreter is a resolved Python interpreter. The version is queried once
// at discovery time and immutable afterwards.
type Interpreter struct {
	path    string
	version Version
}

// New builds an Interpreter from an already-known path and version. Used by
// tests and by callers that resolved the interpreter elsewhere.
func New(path string, version Version) *Interpreter {
	return &Interpreter{path: path, version: version}
}

// Discover resolves basePython to an executable on PATH and queries its
// version. Both failure cases surface as *InterpreterNotFoundError.
func Discover(ctx context.Context, basePython string) (*Interpreter, error) {
	path, err := exec.LookPath(basePython)
	if err != nil {
		return nil, &InterpreterNotFoundError{BasePython: basePython, Cause: err}
	}
	out, err := runPython(ctx, path, versionProbe)
	if err != nil {
		return nil, &InterpreterNotFoundError{BasePython: basePython, Cause: err}
	}
	v, err := ParseVersion(out)
	if err != nil {
		return nil, &InterpreterNotFoundError{BasePython: basePython, Cause: err}
	}
	return &Interpreter{path: path, version: v}, nil
}

// Executable returns the path of the interpreter binary.
func (i *Interpreter) Executable() string {
	return i.path
}

// Version returns the interpreter's reported version.
func (i *Interpreter) Version() Version {
	return i.version
}

// SitePackages returns the interpreter's site-packages directories, user site
// included.
func (i *Interpreter) SitePackages(ctx context.Context) ([]string, error) {
	out, err := runPython(ctx, i.path, sitePackagesProbe)
	if err != nil {
		return nil, fmt.Errorf("query site-packages of %s: %w", i.path, err)
	}
	var dirs []string
	if err := json.Unmarshal([]byte(out), &dirs); err != nil {
		return nil, fmt.Errorf("parse site-packages of %s: %w", i.path, err)
	}
	return dirs, nil
}

// Distributions lists the distributions installed for this interpreter by
// scanning its site-packages metadata. pip is never invoked.
func (i *Interpreter) Distributions(ctx context.Context) (iter.Seq[Distribution], error) {
	dirs, err := i.SitePackages(ctx)
	if err != nil {
		return nil, err
	}
	return ScanDistributions(dirs), nil
}
