// SPDX-License-Identifier: MPL-2.0

// Package platform holds the per-OS knowledge lmms-pkg needs: where user
// configuration lives, which file names Windows cannot store, and whether
// the process runs inside a Flatpak or Snap sandbox.
package platform
