// SPDX-License-Identifier: MPL-2.0

package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gotox/internal/issue"

	"github.com/pelletier/go-toml/v2"
)

type (
	// File is a parsed targets file (gotox.toml).
	File struct {
		Tox  ToxSection            `toml:"tox"`
		Envs map[string]*EnvConfig `toml:"env"`

		path string
	}

	// ToxSection holds session-wide settings.
	ToxSection struct {
		// EnvList names the environments run by default, in order.
		EnvList []string `toml:"envlist"`
	}

	// EnvConfig describes one target environment.
	EnvConfig struct {
		// BasePython is the requested interpreter, e.g. "python3.11".
		// Empty means the tool-level default applies.
		BasePython string `toml:"base_python"`

		// Deps are the dependency specifiers installed before the commands
		// run. The session's resolver returns them verbatim.
		Deps []string `toml:"deps"`

		// Commands are the test commands, one shell line each.
		Commands []string `toml:"commands"`

		// SkipInstall disables dependency installation for this env.
		SkipInstall bool `toml:"skip_install"`

		// SkipSDist disables the source-distribution build step.
		SkipSDist bool `toml:"skip_sdist"`

		// AllowedExternals lists commands that may resolve outside the
		// environment's bin directory. "*" allows everything; empty warns.
		AllowedExternals []string `toml:"allowed_externals"`
	}
)

// LoadFile reads and validates a targets file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load targets file").
			WithResource(path).
			WithSuggestion("Create a gotox.toml describing your environments").
			WithSuggestion("Or point gotox at one with 'gotox run -c path/to/gotox.toml'").
			Wrap(err).
			BuildError()
	}

	file := &File{}
	if err := toml.Unmarshal(data, file); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse targets file").
			WithResource(path).
			WithSuggestion("Check the TOML syntax near the reported line").
			Wrap(err).
			BuildError()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve targets file path: %w", err)
	}
	file.path = abs

	if len(file.Envs) == 0 {
		return nil, issue.NewErrorContext().
			WithOperation("validate targets file").
			WithResource(path).
			WithSuggestion("Define at least one [env.<name>] table").
			BuildError()
	}
	if len(file.Tox.EnvList) == 0 {
		// No explicit envlist: run everything, in stable order.
		names := make([]string, 0, len(file.Envs))
		for name := range file.Envs {
			names = append(names, name)
		}
		sort.Strings(names)
		file.Tox.EnvList = names
	}
	for _, name := range file.Tox.EnvList {
		if _, ok := file.Envs[name]; !ok {
			return nil, fmt.Errorf("envlist references unknown environment %q", name)
		}
	}
	return file, nil
}

// Path returns the absolute path of the targets file.
func (f *File) Path() string {
	return f.path
}

// Dir returns the directory containing the targets file. Environment roots
// and command working directories are resolved relative to it.
func (f *File) Dir() string {
	return filepath.Dir(f.path)
}
