// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the packager, the CLI and
// the configuration layer. Each type validates itself through IsValid or
// Validate and reports failures with a typed error wrapping a sentinel.
package types
