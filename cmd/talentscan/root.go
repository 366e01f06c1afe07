package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"talentscan/internal/archive"
	"talentscan/internal/chat"
	"talentscan/internal/config"
	"talentscan/internal/cv"
	"talentscan/internal/ingest"
	"talentscan/internal/llm"
	"talentscan/internal/logger"
	"talentscan/internal/storage"
)

const app = "talentscan"

var (
	debugLogs bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "talentscan parses resumes and answers questions about the stored candidates",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugLogs, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
}

// env is what a command needs, built from the same configuration as the server.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	store    storage.Store
	provider llm.Provider
}

// newEnv loads configuration and opens the store. withLLM also configures the model provider.
func newEnv(ctx context.Context, withLLM bool) (*env, error) {
	cfg := config.LoadConfig()
	zl, err := logger.New(jsonLogs || cfg.LogJSON, debugLogs || cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	store, err := storage.New(ctx, storage.Options{DatabaseURL: cfg.DatabaseURL, Logger: zl})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: zl, store: store}
	if !withLLM {
		return e, nil
	}

	e.provider, err = llm.New(ctx, llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.LLMTimeout,
	}, zl)
	if err != nil {
		store.Close()
		return nil, err
	}
	return e, nil
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
}

func (e *env) ingestService(ctx context.Context) (*ingest.Service, error) {
	extractor, err := cv.NewExtractor(e.provider, e.log)
	if err != nil {
		return nil, err
	}
	arc, err := archive.New(ctx, e.cfg.Archive, e.log)
	if err != nil {
		return nil, err
	}
	return ingest.NewService(cv.NewCVParser(e.cfg.UploadsDir), extractor, e.store, arc, e.log), nil
}

func (e *env) chatService() *chat.Service {
	return chat.NewService(e.store, chat.NewResponder(e.provider, e.log), e.log)
}

func (e *env) warnVolatile(w io.Writer) {
	if e.cfg.StoreBackend() == config.BackendMemory {
		fmt.Fprintln(w, "note: DATABASE_URL is not set, candidates live only for this process")
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
