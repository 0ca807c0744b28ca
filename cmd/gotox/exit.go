// SPDX-License-Identifier: MPL-2.0

package main

import "fmt"

// ExitError carries an explicit process exit code through fang/cobra back to
// main, so failing test commands propagate their status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
