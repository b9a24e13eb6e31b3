package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/hyperifyio/goground/internal/grounding"
)

// Gemini queries the Gemini API with the Google Search tool enabled, so the
// search runs server-side and the response carries grounding metadata.
type Gemini struct {
	client *genai.Client
}

// NewGemini builds a Gemini provider. The API key is explicit here; reading
// it from the environment is the caller's concern.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY or pass -gemini.key", ErrMissingAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) GroundedQuery(ctx context.Context, req Request) (Result, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if req.SystemHint != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemHint, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return Result{}, fmt.Errorf("generate content: %w", err)
	}
	res := extractResult(resp)
	log.Debug().
		Int("chunks", len(res.Grounding.Chunks)).
		Int("supports", len(res.Grounding.Supports)).
		Int("queries", len(res.Grounding.Queries)).
		Msg("gemini response extracted")
	return res, nil
}

// extractResult flattens the first candidate into the provider-neutral
// Result. Absent candidates, parts or grounding metadata all degrade to
// empty values rather than errors: a grounded query that found nothing to
// ground is still a valid answer.
func extractResult(resp *genai.GenerateContentResponse) Result {
	var res Result
	if resp == nil || len(resp.Candidates) == 0 {
		return res
	}
	cand := resp.Candidates[0]

	if cand.Content != nil {
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		res.Text = sb.String()
	}

	res.Grounding = rawGroundingFrom(cand.GroundingMetadata)
	return res
}

func rawGroundingFrom(md *genai.GroundingMetadata) grounding.RawGrounding {
	var raw grounding.RawGrounding
	if md == nil {
		return raw
	}

	for _, chunk := range md.GroundingChunks {
		var rc grounding.RawChunk
		if chunk != nil {
			switch {
			case chunk.Web != nil:
				rc = grounding.RawChunk{URI: chunk.Web.URI, Title: chunk.Web.Title}
			case chunk.RetrievedContext != nil:
				rc = grounding.RawChunk{URI: chunk.RetrievedContext.URI, Title: chunk.RetrievedContext.Title}
			}
		}
		// A nil or sourceless chunk still occupies its slot so that support
		// chunk indices keep pointing at the right entries.
		raw.Chunks = append(raw.Chunks, rc)
	}

	for _, sup := range md.GroundingSupports {
		if sup == nil || sup.Segment == nil {
			continue
		}
		indices := make([]int, 0, len(sup.GroundingChunkIndices))
		for _, ci := range sup.GroundingChunkIndices {
			indices = append(indices, int(ci))
		}
		raw.Supports = append(raw.Supports, grounding.RawSupport{
			StartIndex:   int(sup.Segment.StartIndex),
			EndIndex:     int(sup.Segment.EndIndex),
			ChunkIndices: indices,
		})
	}

	raw.Queries = append(raw.Queries, md.WebSearchQueries...)
	return raw
}
