// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform seams. goos selects the redirect strategy and mkJunction creates
// a Windows directory junction; both are package-level variables so tests can
// exercise the Windows code path on any platform.
var (
	goos = runtime.GOOS

	mkJunction = makeJunction
)

// Destroy removes the target's entire environment root directory tree.
// Absence is not an error for a delete, so failures are swallowed and the
// operation is idempotent.
func Destroy(t Target) {
	_ = os.RemoveAll(t.Root())
}

// CreateRedirect makes the target's expected interpreter path reach the host
// interpreter.
//
// On Windows, unprivileged users cannot create file symlinks but can create
// directory junctions, so the redirect is a junction linking the env bin
// directory to the host interpreter's directory. Everywhere else it is a
// plain symlink from the expected interpreter path to the host interpreter.
// Either way the resulting environment inspects as ShapeRedirect.
func CreateRedirect(t Target, hostPython string) error {
	envPython := t.EnvPython()
	binDir := filepath.Dir(envPython)

	if goos == "windows" {
		if err := os.MkdirAll(filepath.Dir(binDir), 0o755); err != nil {
			return fmt.Errorf("create environment root for %s: %w", t.Name(), err)
		}
		if err := mkJunction(binDir, filepath.Dir(hostPython)); err != nil {
			return fmt.Errorf("create junction for %s: %w", t.Name(), err)
		}
		return nil
	}

	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("create environment bin dir for %s: %w", t.Name(), err)
	}
	if err := os.Symlink(hostPython, envPython); err != nil {
		return fmt.Errorf("create redirect link for %s: %w", t.Name(), err)
	}
	return nil
}

// makeJunction creates a directory junction. mklink is a cmd.exe builtin,
// not a standalone binary, hence the shell-out.
func makeJunction(link, target string) error {
	out, err := exec.Command("cmd", "/c", "mklink", "/J", link, target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mklink /J %s %s: %v: %s", link, target, err, strings.TrimSpace(string(out)))
	}
	return nil
}
