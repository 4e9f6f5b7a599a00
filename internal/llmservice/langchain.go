package llmservice

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finratio/internal/config"
	"finratio/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainGenerator serves OpenAI compatible endpoints (OpenAI, OpenRouter)
// and Ollama through langchaingo.
type LangchainGenerator struct {
	llm     llms.Model
	timeout time.Duration
}

var _ Generator = (*LangchainGenerator)(nil)

func NewLangchainGenerator(llmConfig *config.LLMConfig) (*LangchainGenerator, error) {
	var (
		llm llms.Model
		err error
	)
	switch llmConfig.Provider {
	case config.ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		llm, err = ollama.New(opts...)
	default:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		llm, err = openai.New(opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", llmConfig.Provider, err)
	}
	return &LangchainGenerator{llm: llm, timeout: timeout(llmConfig)}, nil
}

func (g *LangchainGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	messages := make([]llms.MessageContent, 0, len(req.Turns)+1)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, t := range req.Turns {
		role := llms.ChatMessageTypeHuman
		if t.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, t.Text))
	}

	var opts []llms.CallOption
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.llm.GenerateContent(callCtx, messages, opts...)
	if err != nil {
		return "", classifyLangchain(err)
	}
	if res == nil || len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	log.Debug().Int("choices", len(res.Choices)).Msg("Langchain response")
	return res.Choices[0].Content, nil
}

// statusCodeRe finds the HTTP status in provider messages such as
// "API returned unexpected status code: 429" or "status 503".
var statusCodeRe = regexp.MustCompile(`(?i)\bstatus(?:\s+code)?\s*[:=]?\s*(\d{3})\b`)

// classifyLangchain inspects the provider message, langchaingo does not
// expose typed status errors for every backend.
func classifyLangchain(err error) error {
	msg := strings.ToLower(err.Error())
	status := 0
	if m := statusCodeRe.FindStringSubmatch(msg); m != nil {
		status, _ = strconv.Atoi(m[1])
	}
	switch {
	case status == http.StatusTooManyRequests, strings.Contains(msg, "rate limit"), strings.Contains(msg, "quota exceeded"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case status >= 500, status == http.StatusUnauthorized, status == http.StatusForbidden,
		strings.Contains(msg, "connection refused"):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return classifyTransport(err)
}
