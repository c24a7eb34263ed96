// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user CUE files against embedded schemas.
//
// A schema is compiled, the user file is compiled and unified with one
// definition of the schema, and any failure is reported with a JSON-style
// path to the offending field:
//
//	value, err := cueutil.Validate(schema, data, "#Config", "config.cue")
//	if err != nil {
//	    return err // config.cue: export.zip: conflicting values "yes" and bool
//	}
package cueutil
