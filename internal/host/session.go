// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gotox/internal/currentenv"

	"github.com/charmbracelet/log"
)

type (
	// Session runs a set of targets through the lifecycle: configure,
	// create, package, install, run, report, cleanup. Each step is offered
	// to the plugin first; the session's defaults only run when the plugin
	// defers. Targets are processed sequentially, so no two steps ever race
	// on the same environment directory.
	Session struct {
		file     *File
		plugin   *currentenv.Plugin
		workDir  string
		recreate bool
		logger   *log.Logger

		// Stdout and Stderr receive command output and the installed
		// report. Defaults are the process streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExitStatusError reports a test command that exited non-zero. The CLI
	// propagates the code as the process exit status.
	ExitStatusError struct {
		Target  string
		Command string
		Code    int
	}
)

func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s: command %q exited with status %d", e.Target, e.Command, e.Code)
}

// NewSession builds a session. workDir is the directory environments live
// under (usually <targets file dir>/.gotox).
func NewSession(file *File, plugin *currentenv.Plugin, workDir string, recreate bool, logger *log.Logger) *Session {
	return &Session{
		file:     file,
		plugin:   plugin,
		workDir:  workDir,
		recreate: recreate,
		logger:   logger,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Targets resolves the requested environment names (all of envlist when
// empty) to targets.
func (s *Session) Targets(names []string, defaultBasePython string) ([]*Target, error) {
	if len(names) == 0 {
		names = s.file.Tox.EnvList
	}
	targets := make([]*Target, 0, len(names))
	for _, name := range names {
		cfg, ok := s.file.Envs[name]
		if !ok {
			return nil, fmt.Errorf("unknown environment %q (configured: %s)",
				name, strings.Join(s.file.Tox.EnvList, ", "))
		}
		targets = append(targets, newTarget(name, cfg, s.workDir, defaultBasePython, s.recreate))
	}
	return targets, nil
}

// Run executes the full lifecycle for the given targets. The session-cleanup
// hook runs even when a target fails, so redirect environments never outlive
// a clean shutdown.
func (s *Session) Run(ctx context.Context, targets []*Target) error {
	configs := make([]currentenv.TargetConfig, len(targets))
	plain := make([]currentenv.Target, len(targets))
	for i, t := range targets {
		configs[i] = t
		plain[i] = t
	}
	s.plugin.Configure(configs)
	defer s.plugin.Cleanup(plain)

	for _, t := range targets {
		if err := s.runTarget(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) runTarget(ctx context.Context, t *Target) error {
	s.logger.Info("running target", "target", t.Name(), "mode", s.plugin.Mode().Kind())

	outcome, err := s.plugin.EnvCreate(t)
	if err != nil {
		return err
	}
	if !outcome.Handled {
		if err := s.provisionVenv(ctx, t); err != nil {
			return err
		}
	} else {
		s.logger.Debug("environment creation handled by plugin", "reason", outcome.Reason)
	}

	outcome, err = s.plugin.PackageBuild(t)
	if err != nil {
		return err
	}
	if !outcome.Handled && !t.cfg.SkipSDist {
		// The demo host has no package of its own to build.
		s.logger.Debug("no source distribution to build", "target", t.Name())
	}

	outcome, err = s.plugin.InstallDeps(t)
	if err != nil {
		return err
	}
	if !outcome.Handled && !t.cfg.SkipInstall && len(t.cfg.Deps) > 0 {
		if err := s.pipInstall(ctx, t); err != nil {
			return err
		}
	}

	outcome, err = s.plugin.RunTests(t)
	if err != nil {
		return err
	}
	if outcome.Handled {
		s.logger.Debug("test execution handled by plugin", "reason", outcome.Reason)
	} else if err := s.runCommands(ctx, t); err != nil {
		return err
	}

	return s.report(ctx, t)
}

// report prints the installed-package list for the target, either from the
// plugin's metadata-based reporter or from the environment's pip.
func (s *Session) report(ctx context.Context, t *Target) error {
	seq, outcome, err := s.plugin.EnvReport(ctx)
	if err != nil {
		return err
	}

	var pkgs []string
	if outcome.Handled {
		for spec := range seq {
			pkgs = append(pkgs, spec)
		}
	} else {
		pkgs, err = s.pipFreeze(ctx, t)
		if err != nil {
			// The report is informational; a broken pip should not fail
			// an otherwise green run.
			s.logger.Debug("package report unavailable", "target", t.Name(), "err", err)
			return nil
		}
	}
	fmt.Fprintf(s.Stdout, "%s installed: %s\n", t.Name(), strings.Join(pkgs, ","))
	return nil
}
