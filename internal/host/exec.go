// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gotox/internal/python"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// provisionVenv builds a real virtualenv for the target with the requested
// base interpreter. This is the host's regular provisioning, used whenever
// the plugin defers environment creation.
func (s *Session) provisionVenv(ctx context.Context, t *Target) error {
	base, err := exec.LookPath(t.BasePython())
	if err != nil {
		return &python.InterpreterNotFoundError{BasePython: t.BasePython(), Cause: err}
	}

	s.logger.Info("creating virtualenv", "target", t.Name(), "python", base)
	cmd := exec.CommandContext(ctx, base, "-m", "venv", t.Root())
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("create virtualenv for %s: %w: %s",
			t.Name(), err, strings.TrimSpace(string(out)))
	}
	return nil
}

// pipInstall installs the target's dependencies into its environment.
func (s *Session) pipInstall(ctx context.Context, t *Target) error {
	args := append([]string{"-m", "pip", "install"}, t.cfg.Deps...)
	s.logger.Info("installing dependencies", "target", t.Name(), "count", len(t.cfg.Deps))

	cmd := exec.CommandContext(ctx, t.EnvPython(), args...)
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("install dependencies for %s: %w", t.Name(), err)
	}
	return nil
}

// pipFreeze returns the environment's installed packages in pinned form.
// Default report path, used when the plugin's reporter defers.
func (s *Session) pipFreeze(ctx context.Context, t *Target) ([]string, error) {
	out, err := exec.CommandContext(ctx, t.EnvPython(), "-m", "pip", "freeze").Output()
	if err != nil {
		return nil, fmt.Errorf("pip freeze for %s: %w", t.Name(), err)
	}
	var pkgs []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			pkgs = append(pkgs, line)
		}
	}
	return pkgs, nil
}

// runCommands executes the target's test commands through the embedded shell
// interpreter, with the environment's bin directory first on PATH.
func (s *Session) runCommands(ctx context.Context, t *Target) error {
	env := s.commandEnv(t)
	parser := syntax.NewParser()

	for _, command := range t.cfg.Commands {
		s.warnExternal(t, command)

		prog, err := parser.Parse(strings.NewReader(command), t.Name())
		if err != nil {
			return fmt.Errorf("parse command %q: %w", command, err)
		}

		runner, err := interp.New(
			interp.Dir(s.file.Dir()),
			interp.Env(expand.ListEnviron(env...)),
			interp.StdIO(nil, s.Stdout, s.Stderr),
		)
		if err != nil {
			return fmt.Errorf("create interpreter for %s: %w", t.Name(), err)
		}

		s.logger.Info("running command", "target", t.Name(), "command", command)
		if err := runner.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				return &ExitStatusError{Target: t.Name(), Command: command, Code: int(status)}
			}
			return fmt.Errorf("run command %q: %w", command, err)
		}
	}
	return nil
}

// commandEnv builds the environment for test commands: the process env with
// the target's bin directory prepended to PATH and VIRTUAL_ENV set.
func (s *Session) commandEnv(t *Target) []string {
	env := os.Environ()
	for i, kv := range env {
		if name, value, ok := strings.Cut(kv, "="); ok && strings.EqualFold(name, "PATH") {
			env[i] = name + "=" + t.BinDir() + string(os.PathListSeparator) + value
		}
	}
	env = append(env, "VIRTUAL_ENV="+t.Root())
	return env
}

// warnExternal flags commands that resolve outside the environment's bin
// directory and are not in the allowlist. Warning only; old orchestrators
// treated this the same way.
func (s *Session) warnExternal(t *Target, command string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}
	name := fields[0]

	for _, allowed := range t.cfg.AllowedExternals {
		if allowed == "*" || allowed == name {
			return
		}
	}
	if _, err := os.Stat(filepath.Join(t.BinDir(), name)); err == nil {
		return
	}
	s.logger.Warn("command resolves outside the environment",
		"target", t.Name(), "command", name)
}
