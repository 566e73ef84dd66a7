package service

import (
	"context"
	"errors"
	"fmt"

	"doctransform/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// ErrModelUnavailable covers network, auth, and rate-limit failures from the
// completion backend. It is the one query-processing error local fallback
// cannot paper over: there is no completion text to parse.
var ErrModelUnavailable = errors.New("model backend unavailable")

// systemInstruction pins the model to the document-assistant role and the
// four-key response contract.
const systemInstruction = `You are an AI document assistant. You can summarize documents, suggest edits and improvements, describe conversions to other formats, and answer questions about document content.

Always respond with a single JSON object containing exactly these keys and nothing else:
{"Summary": "brief summary of the document or response to the query", "EditsApplied": ["list of suggested edits or improvements"], "ConvertedFileLink": "if applicable, describe the converted format", "Answer": "detailed answer to the user's query"}

Do not wrap the object in markdown code fences and do not add prose before or after it. "EditsApplied" must be a JSON array of strings even when there is a single edit or none.`

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = systemInstruction
	model.Temperature = 0.3

	logger.Info("LLM service initialized", zap.String("model", cfg.Model))

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends a prompt to the completion backend and returns the raw
// completion text. Backend failures of any kind map to ErrModelUnavailable.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		s.logger.Error("Completion request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices in response", ErrModelUnavailable)
	}

	// Returned verbatim: the raw completion is an observability artifact,
	// and trimming or shape recovery is the parser's job
	content := resp.Choices[0].Message.Content
	s.logger.Debug("Completion received", zap.Int("length", len(content)))

	return content, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
