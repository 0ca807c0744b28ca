// SPDX-License-Identifier: MPL-2.0

// Package host is the minimal test-environment orchestrator gotox ships.
//
// It owns everything the currentenv plugin treats as external: the targets
// file (gotox.toml), the per-target environment layout, regular virtualenv
// provisioning, dependency installation and test-command execution. At each
// lifecycle step the session first offers the step to the plugin and only
// falls back to its default behavior when the plugin defers.
//
// Test commands run through the embedded mvdan/sh interpreter with the
// environment's bin directory prepended to PATH, so `python` and installed
// entry points resolve inside the target environment.
package host
