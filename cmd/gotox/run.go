// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gotox/internal/config"
	"gotox/internal/currentenv"
	"gotox/internal/host"
	"gotox/internal/issue"
	"gotox/internal/python"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	runEnvs       []string
	runCurrentEnv bool
	printDepsOnly bool
	printDepsTo   string
	runRecreate   bool
	targetsFile   string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the configured test environments",
		RunE:  runRun,
	}
)

func init() {
	runCmd.Flags().StringSliceVarP(&runEnvs, "envs", "e", nil, "environments to run (default: envlist)")
	runCmd.Flags().BoolVar(&runCurrentEnv, "current-env", false,
		"run tests in the host interpreter, not creating any virtualenv")
	runCmd.Flags().BoolVar(&printDepsOnly, "print-deps-only", false,
		"deprecated, equivalent to '--print-deps-to -'")
	runCmd.Flags().StringVar(&printDepsTo, "print-deps-to", "",
		"don't run tests, only print the dependencies to the given file (use '-' for stdout)")
	runCmd.Flags().BoolVarP(&runRecreate, "recreate", "r", false,
		"force teardown and rebuild of the target environments")
	runCmd.Flags().StringVarP(&targetsFile, "file", "c", "gotox.toml", "targets file")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if !verbose {
		verbose = cfg.UI.Verbose
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "gotox"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	// Open the deps sink before anything else: flag conflicts and bad paths
	// are configuration errors and must abort before any target is touched.
	var sink io.Writer
	var sinkFile *os.File
	if printDepsTo == "-" {
		sink = cmd.OutOrStdout()
	} else if printDepsTo != "" {
		sinkFile, err = os.Create(printDepsTo)
		if err != nil {
			return reportError(&currentenv.ConfigurationError{
				Reason: fmt.Sprintf("cannot open --print-deps-to file: %v", err),
			})
		}
		defer sinkFile.Close()
		sink = sinkFile
	}

	mode, err := currentenv.NewRunMode(runCurrentEnv, printDepsOnly, sink, cmd.OutOrStdout())
	if err != nil {
		return reportError(err)
	}
	if mode.DeprecatedAlias() {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+
			"--print-deps-only is deprecated; use '--print-deps-to -'")
	}

	var interp *python.Interpreter
	if mode.Kind() != currentenv.ModeRegular {
		interp, err = python.Discover(ctx, cfg.HostPython)
		if err != nil {
			return reportError(err)
		}
		logger.Debug("host interpreter",
			"python", interp.Executable(), "version", interp.Version())
	}

	file, err := host.LoadFile(targetsFile)
	if err != nil {
		return reportError(err)
	}

	plugin := currentenv.NewPlugin(mode, interp, currentenv.WithLogger(logger))
	session := host.NewSession(file, plugin,
		filepath.Join(file.Dir(), cfg.WorkDirName), runRecreate, logger)
	session.Stdout = cmd.OutOrStdout()
	session.Stderr = cmd.ErrOrStderr()

	targets, err := session.Targets(runEnvs, cfg.HostPython)
	if err != nil {
		return reportError(err)
	}
	if err := session.Run(ctx, targets); err != nil {
		var status *host.ExitStatusError
		if errors.As(err, &status) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
			return &ExitError{Code: status.Code, Err: err}
		}
		return reportError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("congratulations :)"))
	return nil
}

// reportError prints the error, renders the matching remediation card when
// one exists, and returns a silent exit error so cobra does not double-print.
func reportError(err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	if iss := issueFor(err); iss != nil {
		if card, renderErr := iss.Render("dark"); renderErr == nil {
			fmt.Fprintln(os.Stderr, card)
		}
	}
	return &ExitError{Code: 1, Err: err}
}

// issueFor maps known error types to their remediation cards.
func issueFor(err error) *issue.Issue {
	var (
		confErr    *currentenv.ConfigurationError
		staleRedir *currentenv.StaleRedirectError
		staleMater *currentenv.StaleMaterializedError
		notFound   *python.InterpreterNotFoundError
		mismatch   *python.InterpreterMismatchError
		exitStatus *host.ExitStatusError
	)
	switch {
	case errors.As(err, &confErr):
		return issue.Get(issue.FlagConflictId)
	case errors.As(err, &staleRedir), errors.As(err, &staleMater):
		return issue.Get(issue.StaleEnvId)
	case errors.As(err, &mismatch):
		return issue.Get(issue.InterpreterMismatchId)
	case errors.As(err, &notFound):
		return issue.Get(issue.InterpreterNotFoundId)
	case errors.As(err, &exitStatus):
		return issue.Get(issue.CommandFailedId)
	}
	return nil
}
