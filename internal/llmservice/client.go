package llmservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finratio/internal/config"
	"finratio/internal/models"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnavailable wraps failures to reach the provider: network, outage, timeout, rejected key.
	ErrUnavailable = errors.New("text generation service unavailable")
	// ErrQuotaExceeded wraps rate limit and quota rejections.
	ErrQuotaExceeded = errors.New("text generation quota exceeded")
)

// Request is one generation call. A one-shot prompt is a single user turn.
type Request struct {
	Model  string
	System string
	Turns  []models.ConversationTurn
}

// Generator is the text generation capability.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New builds the generator for the configured provider.
func New(ctx context.Context, llmConfig *config.LLMConfig) (Generator, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Msg("Creating generator")
	var (
		gen Generator
		err error
	)
	switch llmConfig.Provider {
	case config.ProviderGemini, "":
		gen, err = NewGeminiGenerator(ctx, llmConfig)
	case config.ProviderOpenAI, config.ProviderOllama:
		gen, err = NewLangchainGenerator(llmConfig)
	default:
		err = fmt.Errorf("unknown llm provider %q", llmConfig.Provider)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func validate(req Request) error {
	if len(req.Turns) == 0 {
		return fmt.Errorf("at least one turn is required")
	}
	return nil
}

// withTimeout applies d unless ctx already carries a deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func timeout(llmConfig *config.LLMConfig) time.Duration {
	return time.Duration(llmConfig.TimeoutSeconds) * time.Second
}
