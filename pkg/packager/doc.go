// SPDX-License-Identifier: MPL-2.0

// Package packager builds and opens LMMS project packages.
//
// A package is a directory holding one project file and a flat resources/
// directory with every sample and SoundFont the project references. Pack
// assembles that layout from a project on disk and zips it into a .mmpk
// archive; Unpack does the reverse and points the project at the extracted
// files. Check and Info inspect an archive without extracting it.
//
// Every operation removes what it created when it fails. Files and
// directories that existed before the operation started are never removed.
package packager
