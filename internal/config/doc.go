// SPDX-License-Identifier: MPL-2.0

// Package config handles lmms-pkg configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/lmms-pkg/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/lmms-pkg/config.cue on macOS,
// %APPDATA%\lmms-pkg\config.cue on Windows), falling back to ./config.cue. Values can be
// overridden through LMMS_PKG_* environment variables (LMMS_PKG_LMMS_COMMAND,
// LMMS_PKG_PACK_ZIP, ...).
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they
// are merged over the defaults.
package config
