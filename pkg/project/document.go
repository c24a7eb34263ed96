// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
)

const (
	// RootTag is the tag of the root element of every LMMS project.
	RootTag = "lmms-project"
	// SongType is the only accepted value of the root type attribute.
	SongType = "song"
	// SourceAttr is the attribute holding a resource path.
	SourceAttr = "src"

	attrType           = "type"
	attrCreator        = "creator"
	attrCreatorVersion = "creatorversion"
	attrVersion        = "version"
)

// ErrInvalidDocument is returned when content cannot be parsed as well-formed XML.
var ErrInvalidDocument = errors.New("invalid project document")

// Document is a parsed project file.
type Document struct {
	name string
	doc  *etree.Document
}

// Load reads and parses the project file at path.
func Load(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrInvalidDocument, path)
	}
	return &Document{name: path, doc: doc}, nil
}

// Parse parses project content held in memory. name is only used in messages.
func Parse(data []byte, name string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocument, name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrInvalidDocument, name)
	}
	return &Document{name: name, doc: doc}, nil
}

// Name returns the path or label the document was loaded from.
func (d *Document) Name() string { return d.name }

// Save writes the document to path.
func (d *Document) Save(path string) error {
	if err := d.doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write project %s: %w", path, err)
	}
	return nil
}

// ResourceElements returns every resource-bearing element in document order.
func (d *Document) ResourceElements() []*Reference {
	var refs []*Reference
	Walk(elementNode{d.doc.Root()}, func(n Node) {
		en, ok := n.(elementNode)
		if !ok {
			return
		}
		kind, known := KindOf(en.el.Tag)
		if !known {
			return
		}
		refs = append(refs, &Reference{
			Kind:   kind,
			Tag:    en.el.Tag,
			Source: en.el.SelectAttrValue(SourceAttr, ""),
			el:     en.el,
		})
	})
	return refs
}

func (d *Document) root() *etree.Element { return d.doc.Root() }
