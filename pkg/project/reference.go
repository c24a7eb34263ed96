// SPDX-License-Identifier: MPL-2.0

package project

import "github.com/beevik/etree"

// Recognised element kinds.
const (
	// AudioFileProcessor is the sample player instrument.
	AudioFileProcessor ElementKind = iota + 1
	// SF2Player is the SoundFont player instrument.
	SF2Player
	// SampleClip is a sample placed on a sample track.
	SampleClip
)

type (
	// ElementKind identifies which kind of resource-bearing element a reference is.
	ElementKind int

	// Reference is one element of the document that points at an external resource.
	Reference struct {
		Kind ElementKind
		// Tag is the element name as written in the document.
		Tag string
		// Source is the current value of the src attribute.
		Source string

		el *etree.Element
	}
)

var kindsByTag = map[string]ElementKind{
	"audiofileprocessor": AudioFileProcessor,
	"sf2player":          SF2Player,
	"sampletco":          SampleClip,
	"sampleclip":         SampleClip,
}

// KindOf reports the element kind for tag.
func KindOf(tag string) (ElementKind, bool) {
	k, ok := kindsByTag[tag]
	return k, ok
}

// String returns a human readable name for the kind.
func (k ElementKind) String() string {
	switch k {
	case AudioFileProcessor:
		return "audio-sample-player"
	case SF2Player:
		return "soundfont-player"
	case SampleClip:
		return "sample-clip"
	default:
		return "unknown"
	}
}

// SetSource rewrites the src attribute of the element in place.
func (r *Reference) SetSource(path string) {
	r.el.CreateAttr(SourceAttr, path)
	r.Source = path
}
