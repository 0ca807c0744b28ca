// SPDX-License-Identifier: MPL-2.0

package currentenv

// ConfigurationError reports an invalid flag combination. It is fatal and
// raised before any target-specific work begins.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// StaleRedirectError reports a regular run against an environment that a
// previous current-env/print-deps run left as a redirect. The remediation
// differs depending on whether the host exposes a session-cleanup hook: with
// one, the redirect should have been removed and its presence means the
// previous run's cleanup never finished; without one, mixing the modes is
// simply unsupported.
type StaleRedirectError struct {
	// CleanupSupported records whether the host has a session-cleanup hook.
	CleanupSupported bool
}

func (e *StaleRedirectError) Error() string {
	if e.CleanupSupported {
		return "looks like a previous --current-env or --print-deps-to run did not finish its cleanup; " +
			"re-run with --recreate (-r) or remove the environment directory by hand"
	}
	return "a regular run after a --current-env or --print-deps-to run is not supported without --recreate (-r)"
}

// StaleMaterializedError reports a current-env run against a fully
// provisioned virtualenv left behind by a regular run. Discarding it silently
// would be expensive, so the operator has to opt in with recreate.
type StaleMaterializedError struct{}

func (e *StaleMaterializedError) Error() string {
	return "--current-env after a regular run is not supported without --recreate (-r)"
}
