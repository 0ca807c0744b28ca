// SPDX-License-Identifier: MPL-2.0

// Package currentenv implements the current-env / print-deps policy layer.
//
// Instead of letting the orchestrator build a fresh virtualenv per target,
// the plugin can redirect a target's interpreter to the host interpreter
// (current-env mode) or skip test execution entirely and print the resolved
// dependency list (print-deps mode).
//
// The heart of the package is a small state machine over on-disk evidence.
// Every target environment has one of three shapes, recomputed from the
// filesystem on every query:
//   - Absent: no interpreter path exists
//   - Redirect: the interpreter path exists but the activate script does not,
//     i.e. a link left behind by a previous current-env/print-deps run
//   - Materialized: interpreter and activate script both exist, i.e. a real
//     virtualenv
//
// No state is persisted anywhere else. That makes crash recovery trivial:
// whatever a prior run left behind is rediscovered from the two existence
// checks, and CheckCompatible refuses mode transitions that would silently
// reuse an environment provisioned under a different mode.
//
// The host orchestrator drives the plugin through lifecycle hooks (EnvCreate,
// PackageBuild, InstallDeps, RunTests, Cleanup, EnvReport). Every hook
// returns an Outcome telling the host whether the step was handled here or
// should proceed normally.
package currentenv
