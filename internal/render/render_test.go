package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/goground/internal/grounding"
)

func TestJSON_BasicShape(t *testing.T) {
	resp := grounding.Response{
		Text: "Spain won.",
		Citations: []grounding.Citation{
			{Index: 1, URI: "https://u1.example.com", Title: "T1"},
		},
	}
	b, err := JSON(resp, resp.Text)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["response_text"] != "Spain won." {
		t.Fatalf("response_text: %v", got["response_text"])
	}
	if _, ok := got["grounding_metadata"]; ok {
		t.Fatalf("metadata present without segments/queries")
	}
	cits, ok := got["citations"].([]any)
	if !ok || len(cits) != 1 {
		t.Fatalf("citations: %v", got["citations"])
	}
}

func TestJSON_OmitsEmptyCitations(t *testing.T) {
	b, err := JSON(grounding.Response{Text: "plain"}, "plain")
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if strings.Contains(string(b), "citations") {
		t.Fatalf("empty citations should be omitted: %s", b)
	}
}

func TestJSON_MetadataSection(t *testing.T) {
	resp := grounding.Response{
		Text:      "Spain won.",
		Citations: []grounding.Citation{{Index: 1, URI: "u1", Title: "T1"}},
		Segments:  []grounding.Segment{{StartIndex: 0, EndIndex: 10, SourceIndices: []int{1}}},
		Queries:   []string{"euro 2024 winner"},
	}
	b, err := JSON(resp, "annotated text")
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"grounding_metadata"`, `"web_search_queries"`, `"grounding_supports"`, `"source_indices"`, `"annotated text"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in:\n%s", want, s)
		}
	}
}

func TestMarkdown_OneLinePerCitationInIndexOrder(t *testing.T) {
	citations := []grounding.Citation{
		{Index: 1, URI: "https://u1.example.com", Title: "First"},
		{Index: 2, URI: "https://u2.example.com", Title: ""},
	}
	got := Markdown("The answer.", citations)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "The answer." {
		t.Fatalf("first line: %q", lines[0])
	}
	if !strings.Contains(got, "## Citations") {
		t.Fatalf("missing citations heading:\n%s", got)
	}
	if !strings.Contains(got, "1. [First](https://u1.example.com)") {
		t.Fatalf("citation 1 malformed:\n%s", got)
	}
	// Empty title falls back to the URI as link text.
	if !strings.Contains(got, "2. [https://u2.example.com](https://u2.example.com)") {
		t.Fatalf("citation 2 malformed:\n%s", got)
	}
}

func TestMarkdown_NoCitationsJustText(t *testing.T) {
	got := Markdown("Just text.", nil)
	if strings.Contains(got, "## Citations") {
		t.Fatalf("unexpected citations section:\n%s", got)
	}
	if !strings.HasPrefix(got, "Just text.") {
		t.Fatalf("got %q", got)
	}
}

func TestWritePDF_ProducesFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "answer.pdf")
	md := "# Answer\n\nSpain won [1](https://u1.example.com).\n\n## Citations\n\n1. [First](https://u1.example.com)\n"
	if err := WritePDF(md, out); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil || len(b) == 0 {
		t.Fatalf("expected pdf file, err=%v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("not a pdf header: %q", string(b[:8]))
	}
}
