// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"context"
	"iter"

	"gotox/internal/python"
)

type (
	// Target is the view of a test target's environment this package needs.
	// The host orchestrator owns the target; the plugin only reads its
	// path-derived attributes and triggers mutations on its directory tree.
	Target interface {
		// Name returns the target's identity, e.g. "py311".
		Name() string
		// Root returns the environment's root directory. Destroy removes
		// this tree wholesale.
		Root() string
		// EnvPython returns the expected interpreter path inside Root.
		EnvPython() string
		// BasePython returns the requested interpreter name, e.g. "python3.11".
		BasePython() string
		// WantsVersion returns the requested interpreter version at
		// major.minor granularity. ok is false when the base-python name does
		// not pin a version.
		WantsVersion() (v python.Version, ok bool)
		// ResolveDeps resolves the target's dependency list. The resolution
		// algorithm is the host's business.
		ResolveDeps() ([]string, error)
		// Recreate reports whether the operator requested a forced
		// teardown-and-rebuild for this target.
		Recreate() bool
	}

	// TargetConfig is the mutable slice of a target's configuration the
	// Configure hook adjusts when a non-regular mode is requested.
	TargetConfig interface {
		// SetSkipSDist disables the source-distribution build step.
		SetSkipSDist(skip bool)
		// AllowAllExternals lifts the external-command allowlist, since
		// sandboxing assumptions no longer hold outside a real virtualenv.
		AllowAllExternals()
	}

	// Interpreter is the host interpreter the plugin redirects targets to.
	// *python.Interpreter satisfies it; tests substitute fakes.
	Interpreter interface {
		Executable() string
		Version() python.Version
		Distributions(ctx context.Context) (iter.Seq[python.Distribution], error)
	}
)
