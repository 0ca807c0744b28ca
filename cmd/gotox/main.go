// SPDX-License-Identifier: MPL-2.0

// Command gotox runs test environments described by a gotox.toml targets
// file, with optional current-env and print-deps run modes.
package main

func main() {
	Execute()
}
