// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gotox/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// verbose enables verbose output
	verbose bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "gotox",
		Short: "A test-environment runner with current-env and print-deps modes",
		Long: TitleStyle.Render("gotox") + SubtitleStyle.Render(" - a test-environment runner") + `

gotox provisions one environment per test target and runs the target's
commands inside it. Two policy modes change that behavior:

  --current-env      redirect every environment to the interpreter gotox
                     itself is configured with, instead of building a
                     virtualenv per target
  --print-deps-to    don't run anything; resolve and print the dependency
                     list that would have been installed

Targets are described in a 'gotox.toml' file next to your project.

` + SubtitleStyle.Render("Examples:") + `
  gotox run                    Run every configured environment
  gotox run -e py311           Run a single environment
  gotox run --current-env      Reuse the host interpreter
  gotox run --print-deps-to -  Print dependencies to stdout
  gotox list                   List configured environments`,
	}
)

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
