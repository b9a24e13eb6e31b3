package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// DefaultModel is the Gemini model used unless overridden.
	DefaultModel = "gemini-2.5-flash"
	// ProModel is selected by the -pro shortcut.
	ProModel = "gemini-2.5-pro"
	// DefaultTimeout bounds one query end to end.
	DefaultTimeout = 60 * time.Second
)

// Config holds runtime configuration for one query.
type Config struct {
	Prompt string
	Model  string

	// Gemini (default backend)
	GeminiAPIKey string

	// OpenAI-compatible backend; used instead of Gemini when BaseURL is set.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Language is an optional BCP 47 hint for the response language.
	Language string

	// Output shaping
	AddCitations    bool
	MarkdownOut     bool
	IncludeMetadata bool
	Strict          bool
	OutputPath      string
	PDFPath         string

	// Cache
	CacheDir    string
	CacheMaxAge time.Duration

	Timeout time.Duration
	Verbose bool
}

// ValidateConfig performs minimal validation of required settings before any
// network work happens.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Prompt) == "" {
		return errors.New("config: prompt is required")
	}
	if strings.TrimSpace(cfg.Model) == "" && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: model is required")
	}
	if cfg.Language != "" {
		if _, err := language.Parse(cfg.Language); err != nil {
			return fmt.Errorf("config: invalid language %q: %w", cfg.Language, err)
		}
	}
	if cfg.Timeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	return nil
}
