package grounding

import (
	"errors"
	"testing"
)

func TestNormalize_IndexStabilityAcrossSupports(t *testing.T) {
	raw := RawGrounding{
		Chunks: []RawChunk{
			{URI: "https://one.example.com", Title: "One"},
			{URI: "https://two.example.com", Title: "Two"},
			{URI: "https://three.example.com", Title: "Three"},
		},
		Supports: []RawSupport{
			{EndIndex: 10, ChunkIndices: []int{2, 0}},
			{EndIndex: 20, ChunkIndices: []int{1, 2}},
			{EndIndex: 30, ChunkIndices: []int{0}},
		},
	}
	citations, segments, err := Normalize(raw, 100, false)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// First-seen order: three, one, two.
	want := []string{"https://three.example.com", "https://one.example.com", "https://two.example.com"}
	if len(citations) != len(want) {
		t.Fatalf("citations: got %d, want %d", len(citations), len(want))
	}
	for i, c := range citations {
		if c.Index != i+1 {
			t.Fatalf("citation %d has index %d", i, c.Index)
		}
		if c.URI != want[i] {
			t.Fatalf("citation %d: got %q, want %q", i, c.URI, want[i])
		}
	}
	if got := segments[0].SourceIndices; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("segment 0 indices: %v", got)
	}
	if got := segments[1].SourceIndices; len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("segment 1 indices: %v", got)
	}
	if got := segments[2].SourceIndices; len(got) != 1 || got[0] != 2 {
		t.Fatalf("segment 2 indices: %v", got)
	}
}

func TestNormalize_EmptyMetadataIsNotAnError(t *testing.T) {
	citations, segments, err := Normalize(RawGrounding{}, 0, true)
	if err != nil {
		t.Fatalf("empty metadata: %v", err)
	}
	if len(citations) != 0 || len(segments) != 0 {
		t.Fatalf("expected empty result, got %d citations, %d segments", len(citations), len(segments))
	}
}

func TestNormalize_ChunkWithoutURIYieldsEmptySourceIndices(t *testing.T) {
	raw := RawGrounding{
		Chunks:   []RawChunk{{}},
		Supports: []RawSupport{{EndIndex: 5, ChunkIndices: []int{0}}},
	}
	_, segments, err := Normalize(raw, 10, false)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("segment with unresolvable chunk should be retained, got %d segments", len(segments))
	}
	if len(segments[0].SourceIndices) != 0 {
		t.Fatalf("expected empty source indices, got %v", segments[0].SourceIndices)
	}
}

func TestNormalize_LenientSkipsMalformedSupportOnly(t *testing.T) {
	raw := RawGrounding{
		Chunks: []RawChunk{{URI: "https://ok.example.com", Title: "OK"}},
		Supports: []RawSupport{
			{EndIndex: 50, ChunkIndices: []int{0}},  // beyond text length
			{EndIndex: 5, ChunkIndices: []int{7}},   // chunk index out of range
			{StartIndex: 8, EndIndex: 3, ChunkIndices: []int{0}}, // inverted range
			{EndIndex: 10, ChunkIndices: []int{0}},  // valid
		},
	}
	citations, segments, err := Normalize(raw, 10, false)
	if err != nil {
		t.Fatalf("lenient mode must not fail: %v", err)
	}
	if len(segments) != 1 || segments[0].EndIndex != 10 {
		t.Fatalf("expected the one valid segment to survive, got %+v", segments)
	}
	if len(citations) != 1 {
		t.Fatalf("citations: got %d, want 1", len(citations))
	}
}

func TestNormalize_StrictRejectsMalformedSupport(t *testing.T) {
	raw := RawGrounding{
		Chunks:   []RawChunk{{URI: "https://ok.example.com"}},
		Supports: []RawSupport{{EndIndex: 50, ChunkIndices: []int{0}}},
	}
	_, _, err := Normalize(raw, 10, true)
	if !errors.Is(err, ErrMalformedGrounding) {
		t.Fatalf("expected ErrMalformedGrounding, got %v", err)
	}
}

func TestNormalize_AbsentStartDefaultsToZero(t *testing.T) {
	raw := RawGrounding{
		Chunks:   []RawChunk{{URI: "https://ok.example.com"}},
		Supports: []RawSupport{{EndIndex: 4, ChunkIndices: []int{0}}},
	}
	_, segments, err := Normalize(raw, 10, true)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if segments[0].StartIndex != 0 {
		t.Fatalf("start: got %d, want 0", segments[0].StartIndex)
	}
}
