package edi

import "strings"

// Delimiters holds the three characters that structure a flat-file document:
// the segment terminator, the element separator, and the sub-element separator.
type Delimiters struct {
	Segment    string
	Element    string
	SubElement string
}

// DefaultDelimiters returns the conventional delimiter set for purchase
// order interchanges.
func DefaultDelimiters() Delimiters {
	return Delimiters{
		Segment:    "~",
		Element:    "*",
		SubElement: ":",
	}
}

func (d Delimiters) withDefaults() Delimiters {
	def := DefaultDelimiters()
	if d.Segment == "" {
		d.Segment = def.Segment
	}
	if d.Element == "" {
		d.Element = def.Element
	}
	if d.SubElement == "" {
		d.SubElement = def.SubElement
	}
	return d
}

// Segment is one structural unit of the document: an identifier followed by
// ordered elements. Elements keeps the identifier at index 0 so element
// positions match the interchange specification's numbering. Components holds
// the sub-element split of each element; an element without a sub-element
// separator contributes a single-entry slice.
type Segment struct {
	ID         string
	Elements   []string
	Components [][]string
}

// Element returns the trimmed element at position i, or an empty string when
// the segment has no element at that position.
func (s Segment) Element(i int) string {
	if i < 0 || i >= len(s.Elements) {
		return ""
	}
	return strings.TrimSpace(s.Elements[i])
}
