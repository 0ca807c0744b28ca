// SPDX-License-Identifier: MPL-2.0

// Package issue provides gotox's user-facing error surface.
//
// Two building blocks live here:
//   - ActionableError, a structured error carrying the failed operation, the
//     resource involved and remediation suggestions, built through the
//     ErrorContext fluent builder;
//   - Issue, a markdown remediation card looked up by Id and rendered with
//     glamour when the CLI wants to explain a failure in full.
package issue
