// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the lmms-pkg command tree: pack, unpack, check, info
// and config. Handlers translate flags and configuration into packager
// options and render results and failures; all packaging logic lives in
// pkg/packager.
package cmd
