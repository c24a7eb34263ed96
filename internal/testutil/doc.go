// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the test on setup errors:
// working directory and environment switching, file fixtures, and home
// directory redirection. Project document fixtures live in projecttest.
package testutil
