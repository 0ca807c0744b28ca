// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"os"
	"path/filepath"
)

// Shape is the on-disk shape of a target environment. It is recomputed from
// two filesystem existence checks on every query and never cached, so it is
// always consistent with whatever a prior run (or crash) left behind.
type Shape int

const (
	// ShapeAbsent means the interpreter path does not exist.
	ShapeAbsent Shape = iota
	// ShapeRedirect means the interpreter path exists but the activate
	// script does not: a link created by a current-env/print-deps run.
	ShapeRedirect
	// ShapeMaterialized means interpreter and activate script both exist:
	// a normal, fully provisioned virtualenv.
	ShapeMaterialized
)

// String returns a short name for the shape.
func (s Shape) String() string {
	switch s {
	case ShapeRedirect:
		return "redirect"
	case ShapeMaterialized:
		return "materialized"
	default:
		return "absent"
	}
}

// activateScript is the activation artifact colocated with the interpreter.
// Full provisioning always produces it; the redirect shortcut never does.
const activateScript = "activate"

// Inspect determines the target environment's current shape. Pure function
// of filesystem state; a missing parent directory simply reads as Absent.
func Inspect(t Target) Shape {
	envPython := t.EnvPython()
	if !pathExists(envPython) {
		return ShapeAbsent
	}
	if !pathExists(filepath.Join(filepath.Dir(envPython), activateScript)) {
		return ShapeRedirect
	}
	return ShapeMaterialized
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
