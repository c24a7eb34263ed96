// SPDX-License-Identifier: MPL-2.0

package projecttest

import (
	"fmt"
	"html"
	"strings"
)

type (
	// Option configures a test project.
	Option func(*fixture)

	element struct {
		tag string
		src string
	}

	fixture struct {
		root           string
		docType        string
		creatorVersion string
		bpm            int
		numerator      int
		denominator    int
		elements       []element
	}
)

// New renders a song project with LMMS 1.2.2 as creator at 140 BPM in 4/4,
// holding the elements added by opts in order.
func New(opts ...Option) string {
	s := &fixture{
		root:           "lmms-project",
		docType:        "song",
		creatorVersion: "1.2.2",
		bpm:            140,
		numerator:      4,
		denominator:    4,
	}
	for _, opt := range opts {
		opt(s)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n")
	fmt.Fprintf(&b, `<%s version="1.0" creator="LMMS" creatorversion="%s" type="%s">`+"\n",
		s.root, html.EscapeString(s.creatorVersion), html.EscapeString(s.docType))
	fmt.Fprintf(&b, `  <head timesig_numerator="%d" timesig_denominator="%d" bpm="%d"/>`+"\n",
		s.numerator, s.denominator, s.bpm)
	b.WriteString("  <song>\n")
	for _, e := range s.elements {
		fmt.Fprintf(&b, `    <%s src="%s"/>`+"\n", e.tag, html.EscapeString(e.src))
	}
	b.WriteString("  </song>\n")
	fmt.Fprintf(&b, "</%s>\n", s.root)
	return b.String()
}

// WithSamples adds an audiofileprocessor element per path.
func WithSamples(paths ...string) Option {
	return withTag("audiofileprocessor", paths)
}

// WithClips adds a sampleclip element per path.
func WithClips(paths ...string) Option {
	return withTag("sampleclip", paths)
}

// WithSoundFont adds an sf2player element per path.
func WithSoundFont(paths ...string) Option {
	return withTag("sf2player", paths)
}

// WithSources adds one element per path, choosing sf2player for ".sf2"
// paths and audiofileprocessor otherwise.
func WithSources(paths ...string) Option {
	return func(s *fixture) {
		for _, p := range paths {
			tag := "audiofileprocessor"
			if strings.HasSuffix(strings.ToLower(p), ".sf2") {
				tag = "sf2player"
			}
			s.elements = append(s.elements, element{tag: tag, src: p})
		}
	}
}

// WithCreatorVersion sets the creatorversion attribute.
func WithCreatorVersion(v string) Option {
	return func(s *fixture) { s.creatorVersion = v }
}

// WithType sets the type attribute.
func WithType(t string) Option {
	return func(s *fixture) { s.docType = t }
}

// WithRoot renames the root element.
func WithRoot(tag string) Option {
	return func(s *fixture) { s.root = tag }
}

// WithTempo sets the bpm attribute of head.
func WithTempo(bpm int) Option {
	return func(s *fixture) { s.bpm = bpm }
}

// WithTimeSignature sets the time signature attributes of head.
func WithTimeSignature(num, den int) Option {
	return func(s *fixture) {
		s.numerator = num
		s.denominator = den
	}
}

func withTag(tag string, paths []string) Option {
	return func(s *fixture) {
		for _, p := range paths {
			s.elements = append(s.elements, element{tag: tag, src: p})
		}
	}
}
