// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// WindowsReservedNames are device names Windows refuses as file names,
// whatever extension follows them.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name cannot be used as a file name
// on Windows. Only the part before the first dot matters: "aux.wav" and
// "nul.tar.gz" are both reserved.
func IsWindowsReservedName(name string) bool {
	device, _, _ := strings.Cut(name, ".")
	return WindowsReservedNames[strings.ToUpper(strings.TrimRight(device, " "))]
}
