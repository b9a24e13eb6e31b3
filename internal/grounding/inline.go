package grounding

import (
	"fmt"
	"sort"
	"strings"
)

// InsertInlineCitations returns a copy of text with a Markdown citation
// marker appended at each segment's end offset, e.g. "[1](uri1), [2](uri2)".
// Segments with no source indices produce no marker. Segments whose end
// offset does not fit the text are skipped.
//
// Insertions are applied in descending end-offset order. That order is a
// correctness invariant, not a style choice: every insertion shifts all
// offsets after the insertion point, so by handling the largest offset first
// each remaining segment still targets an untouched region of the
// accumulated string. Segments sharing an end offset keep their input order
// and their markers end up adjacent in that order.
func InsertInlineCitations(text string, segments []Segment, citations []Citation) string {
	out, _ := insert(text, segments, citations, false)
	return out
}

// InsertInlineCitationsStrict is InsertInlineCitations except that a segment
// whose end offset falls outside the text fails the whole call with
// ErrMalformedGrounding. Validation happens before any insertion, so on error
// no partially annotated text is ever produced.
func InsertInlineCitationsStrict(text string, segments []Segment, citations []Citation) (string, error) {
	return insert(text, segments, citations, true)
}

func insert(text string, segments []Segment, citations []Citation, strict bool) (string, error) {
	if len(segments) == 0 || len(citations) == 0 {
		return text, nil
	}
	if strict {
		for _, seg := range segments {
			if seg.EndIndex > len(text) || seg.EndIndex < 0 {
				return text, fmt.Errorf("%w: end_index %d beyond text length %d", ErrMalformedGrounding, seg.EndIndex, len(text))
			}
		}
	}

	uris := make(map[int]string, len(citations))
	for _, c := range citations {
		uris[c.Index] = c.URI
	}

	// Stable sort keeps the input order for segments sharing an end offset.
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EndIndex > ordered[j].EndIndex
	})

	out := text
	for i := 0; i < len(ordered); {
		end := ordered[i].EndIndex
		j := i
		for j < len(ordered) && ordered[j].EndIndex == end {
			j++
		}
		group := ordered[i:j]
		i = j

		if end > len(text) || end < 0 {
			continue
		}
		// Segments sharing an end offset become one insertion: a naive
		// per-segment fold would place later markers before earlier ones at
		// the shared point, reversing their order.
		var marker strings.Builder
		for _, seg := range group {
			if len(seg.SourceIndices) == 0 {
				continue
			}
			marker.WriteString(citationMarker(seg.SourceIndices, uris))
		}
		if marker.Len() == 0 {
			continue
		}
		// Valid because every remaining group has EndIndex < end: the
		// region before end is still in original coordinates.
		out = out[:end] + marker.String() + out[end:]
	}
	return out, nil
}

// citationMarker renders "[1](uri1), [2](uri2)" for the given citation
// indices, preserving their order. Indices with no known citation are
// dropped; an empty result means nothing to insert.
func citationMarker(indices []int, uris map[int]string) string {
	links := make([]string, 0, len(indices))
	for _, idx := range indices {
		uri, ok := uris[idx]
		if !ok {
			continue
		}
		links = append(links, fmt.Sprintf("[%d](%s)", idx, uri))
	}
	return strings.Join(links, ", ")
}
