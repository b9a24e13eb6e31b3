package grounding

import "errors"

// ErrMalformedGrounding is returned in strict mode when grounding metadata
// references a chunk that does not exist or carries an index range that does
// not fit the response text. In the default lenient mode the offending
// support is skipped instead, since grounding is best-effort enrichment and a
// single bad segment must not drop the whole answer.
var ErrMalformedGrounding = errors.New("malformed grounding metadata")

// Citation is one deduplicated web source with its stable 1-based index.
// Indices are assigned in first-seen order of distinct URIs and never reused.
type Citation struct {
	Index int    `json:"index"`
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Segment ties a byte range of the response text to the citations that
// support the claim made in that range. Indices refer to the original,
// pre-insertion text.
type Segment struct {
	StartIndex    int   `json:"start_index"`
	EndIndex      int   `json:"end_index"`
	SourceIndices []int `json:"source_indices"`
}

// RawChunk is one retrieved source as reported by the model API, before
// deduplication. An empty URI marks a chunk the API returned without a usable
// web reference; supports pointing at it resolve to nothing.
type RawChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// RawSupport is one grounded claim as reported by the model API: a byte range
// of the response text plus the chunk indices it relies on. A missing start
// index is reported as zero.
type RawSupport struct {
	StartIndex   int   `json:"start_index"`
	EndIndex     int   `json:"end_index"`
	ChunkIndices []int `json:"chunk_indices"`
}

// RawGrounding is the grounding metadata attached to one model response.
// The zero value is the valid "no grounding occurred" case.
type RawGrounding struct {
	Chunks   []RawChunk   `json:"chunks,omitempty"`
	Supports []RawSupport `json:"supports,omitempty"`
	Queries  []string     `json:"queries,omitempty"`
}

// Response is the assembled result of one grounded query. Text is always the
// original model output; the inline-annotated variant is derived on demand by
// InsertInlineCitations and never stored here. Segments and Queries are only
// populated when the caller asked for metadata.
type Response struct {
	Text      string
	Citations []Citation
	Segments  []Segment
	Queries   []string
}

// Assemble builds the final Response. When includeMetadata is false the
// segments and queries are dropped so downstream renderers never see them.
func Assemble(text string, citations []Citation, segments []Segment, queries []string, includeMetadata bool) Response {
	resp := Response{Text: text, Citations: citations}
	if includeMetadata {
		resp.Segments = segments
		resp.Queries = queries
	}
	return resp
}
