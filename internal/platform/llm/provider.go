// Package llm talks to chat-completion backends. Callers depend on
// Provider; New picks the concrete backend from configuration.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the backend answers without any choice.
var ErrEmptyResponse = errors.New("llm: empty response")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) { o.Temperature = temp }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func applyOptions(defaults Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// Provider is a chat-completion backend. Chat returns the text of the first
// choice, which may be empty.
type Provider interface {
	Chat(ctx context.Context, messages []Message, opts ...Option) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Provider string // "openai" or "ollama"
	BaseURL  string
	APIKey   string
	Model    string
	// Timeout bounds one completion call. Zero means no client timeout.
	Timeout time.Duration
}

// New builds the Provider named by cfg.Provider.
func New(cfg Config) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, client), nil
	case "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
