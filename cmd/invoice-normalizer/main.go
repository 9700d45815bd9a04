package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-normalizer/internal/document"
	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/pipeline"
	"github.com/zombor/invoice-normalizer/internal/server"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// openOracle builds the model client and column oracle; tests replace it
var openOracle = newOracle

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code. It returns
// instead of exiting so deferred cleanup such as closing the model client runs.
func run(args []string, stdout, stderr io.Writer) int {
	// Check for version flag before parsing other flags
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Fprintln(stdout, version)
			return 0
		}
	}

	fs := ff.NewFlagSet("invoice-normalizer")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		oracle      = fs.StringLong("oracle", "gemini", "Column oracle: 'gemini', 'ollama', 'openai' or 'heuristic'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-1.5-flash", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name")
		openaiKey   = fs.StringLong("openai-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		openaiModel = fs.StringLong("openai-model", "gpt-4o-mini", "OpenAI model name")
		openaiURL   = fs.StringLong("openai-url", "", "OpenAI compatible API base URL (optional)")
		concurrency = fs.IntLong("concurrency", pipeline.DefaultConcurrency, "Files processed at once")
		cacheTTL    = fs.DurationLong("mapping-cache-ttl", defaultCacheTTL, "How long column mappings are reused for identical samples (0 disables)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat   = fs.StringLong("log-format", "text", "Log format: text or json")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("INVOICE_NORMALIZER"),
	); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	logger, err := newLogger(*logLevel, *logFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	slog.SetDefault(logger)

	cfg := oracleConfig{
		Kind:        *oracle,
		GeminiKey:   firstNonEmpty(*geminiKey, os.Getenv("GEMINI_API_KEY")),
		GeminiModel: *geminiModel,
		OllamaURL:   *ollamaURL,
		OllamaModel: *ollamaModel,
		OpenAIKey:   firstNonEmpty(*openaiKey, os.Getenv("OPENAI_API_KEY")),
		OpenAIModel: *openaiModel,
		OpenAIURL:   *openaiURL,
	}
	client, columnOracle, err := openOracle(cfg)
	if err != nil {
		slog.Error("Failed to initialize oracle", "oracle", cfg.Kind, "error", err)
		return 1
	}
	if client != nil {
		defer func() {
			if err := client.Close(); err != nil {
				slog.Warn("Failed to close model client", "error", err)
			}
		}()
	}

	mapper := mapping.NewMapper(columnOracle, *cacheTTL)
	var extractor pipeline.DocumentExtractor
	if client != nil {
		extractor = document.NewExtractor(client)
	} else {
		slog.Warn("No model configured, PDFs and images will be rejected", "oracle", cfg.Kind)
	}
	service := pipeline.NewService(mapper, extractor, *concurrency)

	if paths := fs.GetArgs(); len(paths) > 0 {
		if err := runBatch(context.Background(), service, paths, stdout); err != nil {
			slog.Error("Batch failed", "error", err)
			return 1
		}
		return 0
	}

	basicAuth := server.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	srv := server.NewServer(service, basicAuth, version)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "oracle", cfg.Kind, "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErr:
		slog.Error("Server error", "error", err)
		return 1
	case <-sigChan:
	}

	slog.Info("Shutting down...")
	return 0
}

// runBatch processes files from disk and writes the results to out as JSON.
// It fails when any file could not be processed.
func runBatch(ctx context.Context, service *pipeline.Service, paths []string, out io.Writer) error {
	files := make([]pipeline.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, pipeline.File{Name: filepath.Base(p), Data: data})
	}

	results := service.ProcessBatch(ctx, files)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
