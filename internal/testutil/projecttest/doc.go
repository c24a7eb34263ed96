// SPDX-License-Identifier: MPL-2.0

// Package projecttest builds LMMS project documents for tests.
//
//	xml := projecttest.New(
//		projecttest.WithSamples("drums/kick.wav"),
//		projecttest.WithSoundFont("/sf/piano.sf2"),
//	)
package projecttest
