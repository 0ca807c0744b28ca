// SPDX-License-Identifier: MPL-2.0

package currentenv

import (
	"context"
	"iter"
	"sort"
	"strings"

	"gotox/internal/python"
)

// EnvReport is the environment-report hook. In current-env mode (or when the
// deprecated print-deps alias was used) the usual package-manager report is
// meaningless: nothing was installed into the redirect environment. Instead
// the report lists the host interpreter's installed distributions straight
// from their on-disk metadata, as "name==version" lines sorted by name. In
// every other mode the hook defers to the host's default reporter.
func (p *Plugin) EnvReport(ctx context.Context) (iter.Seq[string], Outcome, error) {
	if p.mode.Kind() != ModeCurrentEnv && !p.mode.DeprecatedAlias() {
		return nil, DeferredOutcome("default package report"), nil
	}

	dists, err := p.interp.Distributions(ctx)
	if err != nil {
		return nil, Outcome{}, err
	}

	var collected []python.Distribution
	for d := range dists {
		collected = append(collected, d)
	}
	sort.Slice(collected, func(i, j int) bool {
		return strings.ToLower(collected[i].Name) < strings.ToLower(collected[j].Name)
	})

	seq := func(yield func(string) bool) {
		for _, d := range collected {
			if !yield(d.Spec()) {
				return
			}
		}
	}
	return seq, HandledOutcome("read from interpreter metadata"), nil
}
