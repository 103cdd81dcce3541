package eia

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adolbicare/clinic/internal/platform/llm"
)

var (
	ErrGeneration = errors.New("document generation failed")
	ErrChatFailed = errors.New("assistant chat failed")
)

const (
	chatFallback      = "I apologize, but I couldn't generate a response. Please try again."
	assistantFallback = "I'm sorry, I couldn't process that request."
)

type GeneratedDocument struct {
	Success      bool      `json:"success"`
	DocumentType string    `json:"documentType"`
	Content      string    `json:"content"`
	GeneratedAt  time.Time `json:"generatedAt"`
	GeneratedBy  string    `json:"generatedBy"`
}

type AssistantReply struct {
	Success   bool      `json:"success"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher turns document requests and chat questions into LLM calls.
// Nothing is retried and nothing is persisted.
type Dispatcher struct {
	provider llm.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

func NewDispatcher(provider llm.Provider, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{provider: provider, logger: logger, now: time.Now}
}

// GenerateDocument returns the model text for req. A backend failure or an
// empty answer yields ErrGeneration.
func (d *Dispatcher) GenerateDocument(ctx context.Context, req DocumentRequest, generatedBy string) (*GeneratedDocument, error) {
	msgs, err := BuildDocumentPrompt(req)
	if err != nil {
		return nil, err
	}

	content, err := d.provider.Chat(ctx, msgs)
	if err == nil && strings.TrimSpace(content) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		d.logger.Error().Err(err).Str("document_type", req.DocumentType).Msg("document generation failed")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &GeneratedDocument{
		Success:      true,
		DocumentType: req.DocumentType,
		Content:      content,
		GeneratedAt:  d.now().UTC(),
		GeneratedBy:  generatedBy,
	}, nil
}

// Chat answers message using the module and page found in pageContext. Each call
// stands alone; earlier turns are not replayed.
func (d *Dispatcher) Chat(ctx context.Context, message string, pageContext map[string]any) (string, error) {
	content, err := d.provider.Chat(ctx, BuildChatPrompt(message, pageContext))
	if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
		d.logger.Error().Err(err).Msg("chat failed")
		return "", fmt.Errorf("%w: %w", ErrChatFailed, err)
	}
	if content == "" {
		return chatFallback, nil
	}
	return content, nil
}

// ChatAssistant answers message with optional free-text context.
func (d *Dispatcher) ChatAssistant(ctx context.Context, message, contextText string) (*AssistantReply, error) {
	reply, err := d.provider.Chat(ctx, BuildAssistantPrompt(message, contextText))
	if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
		d.logger.Error().Err(err).Msg("chat assistant failed")
		return nil, fmt.Errorf("%w: %w", ErrChatFailed, err)
	}
	if reply == "" {
		reply = assistantFallback
	}
	return &AssistantReply{Success: true, Reply: reply, Timestamp: d.now().UTC()}, nil
}
