package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"talentscan/internal/logger"
	"talentscan/pkg/httpclient"
)

type ProviderName string

const (
	ProviderOpenAI ProviderName = "openai"
	ProviderOllama ProviderName = "ollama"
	ProviderGroq   ProviderName = "groq"
	ProviderGemini ProviderName = "gemini"
)

var defaultBaseURLs = map[ProviderName]string{
	ProviderOpenAI: "https://api.openai.com/v1",
	ProviderGroq:   "https://api.groq.com/openai/v1",
	ProviderOllama: "http://localhost:11434",
}

// Service talks to OpenAI-compatible chat-completion APIs and to Ollama.
type Service struct {
	provider ProviderName
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	log      *zap.Logger
}

func NewService(cfg Config, log *zap.Logger) *Service {
	provider := ProviderName(cfg.Provider)
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURLs[provider]
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		provider: provider,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		baseURL:  baseURL,
		client:   httpclient.New(timeout),
		log:      log,
	}
}

// Complete sends one request to the configured provider and returns the reply text.
func (s *Service) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	var (
		response string
		err      error
	)
	switch s.provider {
	case ProviderOpenAI, ProviderGroq:
		response, err = s.callChatCompletions(ctx, req)
	case ProviderOllama:
		response, err = s.callOllama(ctx, req)
	default:
		return "", fmt.Errorf("unknown provider: %s", s.provider)
	}

	if err != nil {
		s.log.Warn("llm call failed",
			zap.String("provider", string(s.provider)),
			zap.String("model", s.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}

	s.log.Debug("llm call done",
		zap.String("provider", string(s.provider)),
		zap.String("model", s.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(response)),
		zap.String("preview", logger.TruncateForLog(response, 200)),
	)
	return response, nil
}

func messages(req Request) []map[string]string {
	var msgs []map[string]string
	if req.System != "" {
		msgs = append(msgs, map[string]string{"role": "system", "content": req.System})
	}
	return append(msgs, map[string]string{"role": "user", "content": req.Prompt})
}

func (s *Service) callChatCompletions(ctx context.Context, req Request) (string, error) {
	reqBody := map[string]any{
		"model":       s.model,
		"messages":    messages(req),
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}
	if req.JSON {
		reqBody["response_format"] = map[string]string{"type": "json_object"}
	}

	raw, err := s.post(ctx, s.baseURL+"/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode %s response: %w", s.provider, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("%s error: %s", s.provider, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", s.provider)
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (s *Service) callOllama(ctx context.Context, req Request) (string, error) {
	options := map[string]any{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}
	reqBody := map[string]any{
		"model":    s.model,
		"messages": messages(req),
		"stream":   false,
		"options":  options,
	}
	if req.JSON {
		reqBody["format"] = "json"
	}

	raw, err := s.post(ctx, s.baseURL+"/api/chat", reqBody)
	if err != nil {
		return "", fmt.Errorf("Ollama connection failed (is Ollama running?): %w", err)
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("Ollama error: %s", result.Error)
	}

	return strings.TrimSpace(result.Message.Content), nil
}

func (s *Service) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s http error: %w", s.provider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", s.provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error: %d: %s", s.provider, resp.StatusCode, logger.TruncateForLog(string(raw), 300))
	}
	return raw, nil
}
