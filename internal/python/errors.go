// SPDX-License-Identifier: MPL-2.0

package python

import "fmt"

// InterpreterNotFoundError reports that an interpreter could not be located
// or that its version could not be determined. No amount of retrying fixes
// this; the operator has to install or configure the interpreter.
type InterpreterNotFoundError struct {
	// BasePython is the requested interpreter name, e.g. "python3.11".
	BasePython string

	// Cause is the underlying lookup or query failure, if any.
	Cause error
}

func (e *InterpreterNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("interpreter %q not found: %v", e.BasePython, e.Cause)
	}
	return fmt.Sprintf("version of interpreter %q could not be determined", e.BasePython)
}

func (e *InterpreterNotFoundError) Unwrap() error {
	return e.Cause
}

// InterpreterMismatchError reports that an interpreter exists but its version
// disagrees with the requested one. It is distinct from
// InterpreterNotFoundError so operators know no interpreter search will fix
// it.
type InterpreterMismatchError struct {
	// Requested is the version the target asked for.
	Requested Version

	// Current is the version of the host interpreter.
	Current Version
}

func (e *InterpreterMismatchError) Error() string {
	return fmt.Sprintf(
		"interpreter versions do not match:\n    in current env: %s\n    requested: %s",
		e.Current, e.Requested,
	)
}
