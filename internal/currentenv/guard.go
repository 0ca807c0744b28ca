// SPDX-License-Identifier: MPL-2.0

package currentenv

// CheckCompatible decides whether a run in the given mode may act on an
// environment of the given shape, or must fail with a recovery instruction.
//
// Rules, in order:
//  1. recreate always wins: the caller intends to wipe and rebuild.
//  2. a regular run must not reuse a redirect left by a previous
//     current-env/print-deps run.
//  3. a current-env run must not hijack a real virtualenv built by a
//     regular run.
//  4. everything else is compatible.
//
// The guard must run before any mutation at every lifecycle point that can
// act on a target environment, not only at creation time: package build,
// dependency install and test run can each execute independently after
// creation already succeeded in a now-stale state.
func CheckCompatible(mode ModeKind, shape Shape, recreate, cleanupSupported bool) error {
	if recreate {
		return nil
	}
	if mode == ModeRegular && shape == ShapeRedirect {
		return &StaleRedirectError{CleanupSupported: cleanupSupported}
	}
	if mode == ModeCurrentEnv && shape == ShapeMaterialized {
		return &StaleMaterializedError{}
	}
	return nil
}
