// SPDX-License-Identifier: MPL-2.0

package python

import (
	"bufio"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Distribution is one installed Python distribution as recorded in its
// .dist-info metadata.
type Distribution struct {
	Name    string
	Version string
}

// Spec returns the pinned requirement form, e.g. "requests==2.31.0".
func (d Distribution) Spec() string {
	return d.Name + "==" + d.Version
}

// ScanDistributions yields the distributions found under the given
// site-packages directories, in directory-listing order. Directories that do
// not exist are skipped; the first occurrence of a name wins when the same
// distribution shows up in several directories.
func ScanDistributions(dirs []string) iter.Seq[Distribution] {
	return func(yield func(Distribution) bool) {
		seen := make(map[string]bool)
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
					continue
				}
				dist, ok := readMetadata(filepath.Join(dir, entry.Name(), "METADATA"))
				if !ok || seen[strings.ToLower(dist.Name)] {
					continue
				}
				seen[strings.ToLower(dist.Name)] = true
				if !yield(dist) {
					return
				}
			}
		}
	}
}

// readMetadata extracts the Name and Version headers from a METADATA file.
// The header block is RFC 822 style; only the two fields are needed and the
// scan stops at the first blank line (the body is the long description).
func readMetadata(path string) (Distribution, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Distribution{}, false
	}
	defer f.Close()

	var dist Distribution
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		if name, ok := strings.CutPrefix(line, "Name: "); ok {
			dist.Name = strings.TrimSpace(name)
		} else if version, ok := strings.CutPrefix(line, "Version: "); ok {
			dist.Version = strings.TrimSpace(version)
		}
		if dist.Name != "" && dist.Version != "" {
			break
		}
	}
	if dist.Name == "" || dist.Version == "" {
		return Distribution{}, false
	}
	return dist, true
}
