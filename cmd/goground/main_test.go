package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apppkg "github.com/hyperifyio/goground/internal/app"
	"github.com/hyperifyio/goground/internal/llm"
)

// Smoke test: run surfaces the missing-credential error from provider
// construction instead of exiting itself.
func TestRun_MissingGeminiKey_Error(t *testing.T) {
	cfg := apppkg.Config{
		Prompt: "Who won euro 2024?",
		Model:  apppkg.DefaultModel,
	}
	err := run(cfg)
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

// Settings supplied only through a dotenv file must survive the flag package
// having captured empty env defaults at registration time.
func TestEnvFallback_PicksUpDotenvValues(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("LLM_BASE_URL=http://localhost:8080/v1\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LLM_BASE_URL", "")

	// Simulates a flag default captured before the dotenv file existed.
	flagValue := os.Getenv("LLM_BASE_URL")
	if err := apppkg.LoadEnvFiles(envPath); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := envFallback(flagValue, "LLM_BASE_URL"); got != "http://localhost:8080/v1" {
		t.Fatalf("dotenv value lost: %q", got)
	}
}

func TestEnvFallback_ExplicitFlagWins(t *testing.T) {
	t.Setenv("LLM_MODEL", "from-env")
	if got := envFallback("from-flag", "LLM_MODEL"); got != "from-flag" {
		t.Fatalf("got %q", got)
	}
}
