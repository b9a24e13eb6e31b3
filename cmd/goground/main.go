package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goground/internal/app"
	"github.com/hyperifyio/goground/internal/prompt"
)

const version = "0.1.0"

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		useStdin     bool
		addCitations bool
		pro          bool
		model        string
		geminiKey    string
		llmBaseURL   string
		llmModel     string
		llmKey       string
		lang         string
		textOut      bool
		meta         bool
		strict       bool
		outputPath   string
		pdfPath      string
		cacheDir     string
		cacheMaxAge  time.Duration
		timeout      time.Duration
		configPath   string
		envFile      string
		verbose      bool
		showVersion  bool
	)

	flag.BoolVar(&useStdin, "stdin", false, "Read the prompt from stdin instead of arguments")
	flag.BoolVar(&addCitations, "citations", false, "Insert inline citation markers into the response text")
	flag.BoolVar(&pro, "pro", false, "Shortcut for -model "+app.ProModel)
	flag.StringVar(&model, "model", app.DefaultModel, "Gemini model name")
	flag.StringVar(&geminiKey, "gemini.key", os.Getenv("GEMINI_API_KEY"), "Gemini API key")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL; when set, used instead of Gemini (no grounding)")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for the OpenAI-compatible backend")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the OpenAI-compatible backend")
	flag.StringVar(&lang, "lang", "", "Optional BCP 47 response-language hint, e.g. 'en' or 'fi'")
	flag.BoolVar(&textOut, "text", false, "Markdown output instead of JSON")
	flag.BoolVar(&meta, "meta", false, "Include grounding metadata (queries, supports) in JSON output")
	flag.BoolVar(&strict, "strict", false, "Fail on malformed grounding metadata instead of skipping it")
	flag.StringVar(&outputPath, "output", "", "Write the result to a file instead of stdout")
	flag.StringVar(&pdfPath, "pdf", "", "Also write the Markdown result as a PDF to this path")
	flag.StringVar(&cacheDir, "cache.dir", "", "Response cache directory (empty disables caching)")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.DurationVar(&timeout, "timeout", app.DefaultTimeout, "Overall query timeout")
	flag.StringVar(&configPath, "config", "", "Path to YAML/JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Path to dotenv file with credentials")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("goground " + version)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		fatal(err)
	}
	// Flags captured env defaults before the dotenv file was loaded.
	geminiKey = envFallback(geminiKey, "GEMINI_API_KEY")
	llmBaseURL = envFallback(llmBaseURL, "LLM_BASE_URL")
	llmModel = envFallback(llmModel, "LLM_MODEL")
	llmKey = envFallback(llmKey, "LLM_API_KEY")
	if pro {
		model = app.ProModel
	}

	cfg := app.Config{
		Model:           model,
		GeminiAPIKey:    geminiKey,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		Language:        lang,
		AddCitations:    addCitations,
		MarkdownOut:     textOut,
		IncludeMetadata: meta,
		Strict:          strict,
		OutputPath:      outputPath,
		PDFPath:         pdfPath,
		CacheDir:        cacheDir,
		CacheMaxAge:     cacheMaxAge,
		Timeout:         timeout,
		Verbose:         verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			fatal(fmt.Errorf("load config: %w", err))
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			fatal(err)
		}
		if cfg.Verbose && !verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	p, err := prompt.Resolve(flag.Args(), useStdin, os.Stdin)
	if err != nil {
		fatal(err)
	}
	cfg.Prompt = p

	if err := app.ValidateConfig(cfg); err != nil {
		fatal(err)
	}

	if err := run(cfg); err != nil {
		fatal(err)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// envFallback returns val unless it is empty, then the environment variable.
// Flag defaults capture the environment before any dotenv file is loaded, so
// env-backed settings have to be re-read after LoadEnvFiles.
func envFallback(val, key string) string {
	if val != "" {
		return val
	}
	return os.Getenv(key)
}

func fatal(err error) {
	log.Error().Err(err).Msg("query failed")
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
