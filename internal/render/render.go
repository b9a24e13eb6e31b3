package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperifyio/goground/internal/grounding"
)

type jsonCitation struct {
	Index int    `json:"index"`
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type jsonSupport struct {
	StartIndex    int   `json:"start_index"`
	EndIndex      int   `json:"end_index"`
	SourceIndices []int `json:"source_indices"`
}

type jsonMetadata struct {
	WebSearchQueries  []string      `json:"web_search_queries,omitempty"`
	GroundingSupports []jsonSupport `json:"grounding_supports,omitempty"`
}

type jsonResponse struct {
	ResponseText      string         `json:"response_text"`
	Citations         []jsonCitation `json:"citations,omitempty"`
	GroundingMetadata *jsonMetadata  `json:"grounding_metadata,omitempty"`
}

// JSON renders the response as indented JSON. displayText is what goes into
// response_text; callers pass the inline-annotated variant when the user
// asked for inline citations, otherwise the original text. The
// grounding_metadata section appears only when the response actually carries
// segments or queries (the assembler already dropped them in non-verbose
// mode).
func JSON(resp grounding.Response, displayText string) ([]byte, error) {
	out := jsonResponse{ResponseText: displayText}
	for _, c := range resp.Citations {
		out.Citations = append(out.Citations, jsonCitation{Index: c.Index, URI: c.URI, Title: c.Title})
	}
	if len(resp.Segments) > 0 || len(resp.Queries) > 0 {
		md := &jsonMetadata{WebSearchQueries: resp.Queries}
		for _, s := range resp.Segments {
			md.GroundingSupports = append(md.GroundingSupports, jsonSupport{
				StartIndex:    s.StartIndex,
				EndIndex:      s.EndIndex,
				SourceIndices: s.SourceIndices,
			})
		}
		out.GroundingMetadata = md
	}
	return json.MarshalIndent(out, "", "  ")
}

// Markdown renders the display text followed by a "## Citations" section with
// one numbered line per citation in index order. Citations without a title
// repeat the URI as the link text. No citations means just the text.
func Markdown(displayText string, citations []grounding.Citation) string {
	var sb strings.Builder
	sb.WriteString(displayText)
	if len(citations) == 0 {
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString("\n\n## Citations\n\n")
	for _, c := range citations {
		title := c.Title
		if title == "" {
			title = c.URI
		}
		fmt.Fprintf(&sb, "%d. [%s](%s)\n", c.Index, title, c.URI)
	}
	return sb.String()
}
