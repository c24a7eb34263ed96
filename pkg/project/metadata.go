// SPDX-License-Identifier: MPL-2.0

package project

import "fmt"

// Metadata is the summary shown by the info command.
type Metadata struct {
	Creator        string `json:"creator,omitempty" toml:"creator,omitempty"`
	CreatorVersion string `json:"creator_version,omitempty" toml:"creator_version,omitempty"`
	FormatVersion  string `json:"format_version,omitempty" toml:"format_version,omitempty"`
	Type           string `json:"type,omitempty" toml:"type,omitempty"`
	Tempo          string `json:"tempo,omitempty" toml:"tempo,omitempty"`
	TimeSignature  string `json:"time_signature,omitempty" toml:"time_signature,omitempty"`
}

// Metadata extracts version, tempo, and time signature information.
// Missing values are left empty.
func (d *Document) Metadata() Metadata {
	root := d.root()
	m := Metadata{
		Creator:        root.SelectAttrValue(attrCreator, ""),
		CreatorVersion: root.SelectAttrValue(attrCreatorVersion, ""),
		FormatVersion:  root.SelectAttrValue(attrVersion, ""),
		Type:           root.SelectAttrValue(attrType, ""),
	}

	head := root.SelectElement("head")
	if head == nil {
		return m
	}

	m.Tempo = head.SelectAttrValue("bpm", "")
	if m.Tempo == "" {
		// Automated tempo is stored as a child element.
		if bpm := head.SelectElement("bpm"); bpm != nil {
			m.Tempo = bpm.SelectAttrValue("value", "")
		}
	}

	num := head.SelectAttrValue("timesig_numerator", "")
	den := head.SelectAttrValue("timesig_denominator", "")
	if num != "" && den != "" {
		m.TimeSignature = fmt.Sprintf("%s/%s", num, den)
	}
	return m
}
