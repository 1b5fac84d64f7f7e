package edi

import (
	"fmt"
	"strings"

	"edi-bridge/internal/common/errors"
)

// Tokenize splits raw document text into an ordered sequence of segments.
// It performs no semantic validation: unknown segment identifiers pass
// through unchanged and empty fragments between terminators are discarded.
func Tokenize(content string, delims Delimiters) ([]Segment, error) {
	delims = delims.withDefaults()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.MalformedInputError("document is empty", nil)
	}
	if !strings.Contains(content, delims.Segment) {
		return nil, errors.MalformedInputError(
			fmt.Sprintf("no segment terminator %q found in document", delims.Segment), nil)
	}

	fragments := strings.Split(content, delims.Segment)
	segments := make([]Segment, 0, len(fragments))

	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}

		elements := strings.Split(fragment, delims.Element)
		components := make([][]string, len(elements))
		for i, element := range elements {
			components[i] = strings.Split(element, delims.SubElement)
		}

		segments = append(segments, Segment{
			ID:         strings.TrimSpace(elements[0]),
			Elements:   elements,
			Components: components,
		})
	}

	if len(segments) == 0 {
		return nil, errors.MalformedInputError("document contains no segments", nil)
	}

	return segments, nil
}
