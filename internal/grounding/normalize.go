package grounding

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Normalize resolves raw grounding metadata into the deduplicated citation
// list and the per-segment citation indices. Supports are walked in their
// original order, which is what makes citation indices stable across the
// whole response. textLen is the byte length of the response text the
// supports refer to.
//
// A support whose range or chunk references do not fit is skipped in lenient
// mode and fails the call with ErrMalformedGrounding in strict mode. Entirely
// absent metadata is not an error; it yields empty slices.
func Normalize(raw RawGrounding, textLen int, strict bool) ([]Citation, []Segment, error) {
	reg := NewRegistry()
	segments := make([]Segment, 0, len(raw.Supports))

	for _, sup := range raw.Supports {
		if err := checkSupport(sup, len(raw.Chunks), textLen); err != nil {
			if strict {
				return nil, nil, err
			}
			log.Debug().Err(err).Msg("skipping grounding support")
			continue
		}

		indices := make([]int, 0, len(sup.ChunkIndices))
		for _, ci := range sup.ChunkIndices {
			chunk := raw.Chunks[ci]
			if chunk.URI == "" {
				// Chunk exists but has no resolvable source.
				continue
			}
			c := reg.Register(chunk.URI, chunk.Title)
			indices = append(indices, c.Index)
		}
		segments = append(segments, Segment{
			StartIndex:    sup.StartIndex,
			EndIndex:      sup.EndIndex,
			SourceIndices: indices,
		})
	}

	return reg.Citations(), segments, nil
}

func checkSupport(sup RawSupport, chunkCount, textLen int) error {
	if sup.StartIndex < 0 {
		return fmt.Errorf("%w: negative start_index %d", ErrMalformedGrounding, sup.StartIndex)
	}
	if sup.EndIndex < sup.StartIndex {
		return fmt.Errorf("%w: end_index %d before start_index %d", ErrMalformedGrounding, sup.EndIndex, sup.StartIndex)
	}
	if sup.EndIndex > textLen {
		return fmt.Errorf("%w: end_index %d beyond text length %d", ErrMalformedGrounding, sup.EndIndex, textLen)
	}
	for _, ci := range sup.ChunkIndices {
		if ci < 0 || ci >= chunkCount {
			return fmt.Errorf("%w: chunk index %d out of range (have %d chunks)", ErrMalformedGrounding, ci, chunkCount)
		}
	}
	return nil
}
