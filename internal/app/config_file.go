package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Durations are strings
// in time.ParseDuration syntax so a YAML file can say maxAge: "24h".
type FileConfig struct {
	Model string `yaml:"model" json:"model"`

	Gemini struct {
		Key string `yaml:"key" json:"key"`
	} `yaml:"gemini" json:"gemini"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		Key     string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Language  string `yaml:"language" json:"language"`
	Citations bool   `yaml:"citations" json:"citations"`
	Text      bool   `yaml:"text" json:"text"`
	Metadata  bool   `yaml:"metadata" json:"metadata"`
	Strict    bool   `yaml:"strict" json:"strict"`
	Output    string `yaml:"output" json:"output"`
	PDF       string `yaml:"pdf" json:"pdf"`

	Cache struct {
		Dir    string `yaml:"dir" json:"dir"`
		MaxAge string `yaml:"maxAge" json:"maxAge"`
	} `yaml:"cache" json:"cache"`

	Timeout string `yaml:"timeout" json:"timeout"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields that
// are still at their flag defaults, so the file supplies defaults while
// explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.Model == DefaultModel && fc.Model != "" {
		cfg.Model = fc.Model
	}
	if cfg.GeminiAPIKey == "" && fc.Gemini.Key != "" {
		cfg.GeminiAPIKey = fc.Gemini.Key
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.Key != "" {
		cfg.LLMAPIKey = fc.LLM.Key
	}
	if cfg.Language == "" && fc.Language != "" {
		cfg.Language = fc.Language
	}
	if !cfg.AddCitations && fc.Citations {
		cfg.AddCitations = true
	}
	if !cfg.MarkdownOut && fc.Text {
		cfg.MarkdownOut = true
	}
	if !cfg.IncludeMetadata && fc.Metadata {
		cfg.IncludeMetadata = true
	}
	if !cfg.Strict && fc.Strict {
		cfg.Strict = true
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.PDFPath == "" && fc.PDF != "" {
		cfg.PDFPath = fc.PDF
	}
	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge != "" {
		d, err := time.ParseDuration(fc.Cache.MaxAge)
		if err != nil {
			return fmt.Errorf("config: cache.maxAge: %w", err)
		}
		cfg.CacheMaxAge = d
	}
	if cfg.Timeout == DefaultTimeout && fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config: timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}
