// SPDX-License-Identifier: MPL-2.0

// Package project reads, validates, and rewrites LMMS project documents.
//
// Only the parts of the document that matter for packaging are understood:
// the lmms-project root element with its type and version attributes, the
// head element carrying tempo and time signature, and the elements that
// reference external resources through a src attribute. Everything else is
// passed through untouched when the document is saved.
package project
