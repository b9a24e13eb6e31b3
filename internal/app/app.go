package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/hyperifyio/goground/internal/cache"
	"github.com/hyperifyio/goground/internal/grounding"
	"github.com/hyperifyio/goground/internal/llm"
	"github.com/hyperifyio/goground/internal/render"
)

// App wires one validated Config to a model provider and runs the query
// pipeline: ask, normalize grounding, optionally annotate, render.
type App struct {
	cfg      Config
	provider llm.Provider
	cache    *cache.ResponseCache
	out      io.Writer
}

// New selects and constructs the provider. Gemini is the default backend;
// setting an OpenAI-compatible base URL switches to that instead (without
// server-side grounding).
func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg, out: os.Stdout}

	if cfg.LLMBaseURL != "" {
		a.provider = llm.NewOpenAICompat(cfg.LLMBaseURL, cfg.LLMAPIKey)
		if cfg.LLMModel != "" {
			a.cfg.Model = cfg.LLMModel
		}
	} else {
		p, err := llm.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		a.provider = p
	}
	log.Debug().Str("provider", a.provider.Name()).Str("model", a.cfg.Model).Msg("provider selected")

	if cfg.CacheDir != "" {
		if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
			log.Debug().Int("removed", n).Msg("purged expired cache entries")
		}
		a.cache = &cache.ResponseCache{Dir: cfg.CacheDir}
	}
	return a, nil
}

// Run executes the query and writes the rendered result to the configured
// destination (stdout unless an output path is set).
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	res, err := a.query(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("chars", len(res.Text)).Msg("query completed")

	citations, segments, err := grounding.Normalize(res.Grounding, len(res.Text), a.cfg.Strict)
	if err != nil {
		return fmt.Errorf("normalize grounding: %w", err)
	}
	log.Debug().Int("citations", len(citations)).Int("segments", len(segments)).Msg("grounding normalized")

	displayText := res.Text
	if a.cfg.AddCitations {
		if a.cfg.Strict {
			displayText, err = grounding.InsertInlineCitationsStrict(res.Text, segments, citations)
			if err != nil {
				return fmt.Errorf("insert inline citations: %w", err)
			}
		} else {
			displayText = grounding.InsertInlineCitations(res.Text, segments, citations)
		}
	}

	resp := grounding.Assemble(res.Text, citations, segments, res.Grounding.Queries, a.cfg.IncludeMetadata)

	var out []byte
	if a.cfg.MarkdownOut {
		out = []byte(render.Markdown(displayText, resp.Citations))
	} else {
		out, err = render.JSON(resp, displayText)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		out = append(out, '\n')
	}
	if err := a.write(out); err != nil {
		return err
	}

	if a.cfg.PDFPath != "" {
		if err := render.WritePDF(render.Markdown(displayText, resp.Citations), a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("pdf", a.cfg.PDFPath).Msg("wrote pdf")
	}
	return nil
}

// query asks the provider, going through the response cache when one is
// configured. Cache failures never fail the query.
func (a *App) query(ctx context.Context) (llm.Result, error) {
	req := llm.Request{Prompt: a.cfg.Prompt, Model: a.cfg.Model, SystemHint: a.systemHint()}
	key := cache.Key(a.provider.Name(), req.Model, req.SystemHint, req.Prompt)

	if a.cache != nil {
		if b, ok := a.cache.Get(ctx, key); ok {
			var res llm.Result
			if err := json.Unmarshal(b, &res); err == nil {
				log.Debug().Str("key", key).Msg("response cache hit")
				return res, nil
			}
		}
	}

	res, err := a.provider.GroundedQuery(ctx, req)
	if err != nil {
		return llm.Result{}, fmt.Errorf("query %s: %w", a.provider.Name(), err)
	}

	if a.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := a.cache.Save(ctx, key, b); err != nil {
				log.Debug().Err(err).Msg("response cache save failed")
			}
		}
	}
	return res, nil
}

// systemHint folds the validated language hint into a system instruction.
func (a *App) systemHint() string {
	if a.cfg.Language == "" {
		return ""
	}
	tag, err := language.Parse(a.cfg.Language)
	if err != nil {
		// ValidateConfig already rejected bad tags; be safe anyway.
		return ""
	}
	return fmt.Sprintf("Respond in %s.", display.English.Languages().Name(tag))
}

func (a *App) write(b []byte) error {
	if a.cfg.OutputPath != "" {
		if err := os.WriteFile(a.cfg.OutputPath, b, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
		return nil
	}
	_, err := a.out.Write(b)
	return err
}
