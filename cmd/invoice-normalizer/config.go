package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/zombor/invoice-normalizer/internal/llm"
	"github.com/zombor/invoice-normalizer/internal/mapping"
)

const defaultCacheTTL = 10 * time.Minute

// newLogger builds the process logger from the --log-level and --log-format flags
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q: want text or json", format)
}

type oracleConfig struct {
	Kind        string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
	OpenAIKey   string
	OpenAIModel string
	OpenAIURL   string
}

// newOracle returns the column oracle for cfg.Kind and, for model backed
// oracles, the client so documents can use it too
func newOracle(cfg oracleConfig) (llm.Client, mapping.Oracle, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.Kind {
	case "heuristic":
		slog.Info("Using heuristic column matching")
		return nil, mapping.HeuristicOracle{}, nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini...", "model", cfg.GeminiModel)
		client, err = llm.NewGemini(cfg.GeminiKey, cfg.GeminiModel)
	case "ollama":
		slog.Info("Initializing Ollama...", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		client, err = llm.NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, nil, fmt.Errorf("openai API key is required: set --openai-key or OPENAI_API_KEY")
		}
		slog.Info("Initializing OpenAI...", "model", cfg.OpenAIModel)
		client, err = llm.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIURL)
	default:
		return nil, nil, fmt.Errorf("invalid oracle %q: want gemini, ollama, openai or heuristic", cfg.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	return client, mapping.NewLLMOracle(client), nil
}
