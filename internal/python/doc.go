// SPDX-License-Identifier: MPL-2.0

// Package python locates Python interpreters and reads their metadata.
//
// The package answers three questions for the rest of gotox:
//   - which executable does a base-python name like "python3.11" resolve to
//     (Discover),
//   - what version does that executable report (Version, queried once at
//     discovery time),
//   - which distributions are installed for it (ScanDistributions, read
//     straight from *.dist-info metadata on disk rather than by invoking pip).
//
// All subprocess calls go through a package-level function variable so tests
// can substitute canned interpreter output.
package python
