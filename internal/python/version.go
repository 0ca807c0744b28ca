// SPDX-License-Identifier: MPL-2.0

package python

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Python interpreter version. Micro is zero when the source
// string only carried major.minor.
type Version struct {
	Major int
	Minor int
	Micro int
}

// ParseVersion parses "3.11" or "3.11.4" into a Version.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid python version %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid python version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Micro: nums[2]}, nil
}

// VersionFromBasePython extracts the requested version from a base-python
// name such as "python3.11" or "python3.10.2". It returns ok=false when the
// name does not pin at least major.minor (e.g. "python3" or "pypy").
func VersionFromBasePython(base string) (Version, bool) {
	name := base
	if idx := strings.LastIndexAny(name, `/\`); idx != -1 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimPrefix(name, "python")
	if name == "" {
		return Version{}, false
	}
	v, err := ParseVersion(name)
	if err != nil {
		return Version{}, false
	}
	return v, true
}

// MatchesMinor reports whether both versions agree at major.minor
// granularity. Micro versions are deliberately ignored.
func (v Version) MatchesMinor(o Version) bool {
	return v.Major == o.Major && v.Minor == o.Minor
}

// String returns the full dotted form, e.g. "3.11.4".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// MinorString returns the major.minor form, e.g. "3.11".
func (v Version) MinorString() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
