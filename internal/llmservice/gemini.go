package llmservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"finratio/internal/config"
	"finratio/internal/models"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGeminiClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// GeminiGenerator calls the Gemini API through the official SDK.
type GeminiGenerator struct {
	models  geminiModels
	model   string
	timeout time.Duration
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, llmConfig *config.LLMConfig) (*GeminiGenerator, error) {
	key := strings.TrimSpace(llmConfig.Key)
	if key == "" {
		return nil, &config.ConfigMissingError{Key: config.EnvGeminiKey}
	}
	client, err := newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := llmConfig.Model
	if model == "" {
		model = config.DefaultModel
	}
	return &GeminiGenerator{
		models:  client.Models,
		model:   model,
		timeout: timeout(llmConfig),
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	model := req.Model
	if model == "" {
		model = g.model
	}

	contents := make([]*genai.Content, 0, len(req.Turns))
	for _, t := range req.Turns {
		role := genai.RoleUser
		if t.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	callCtx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.models.GenerateContent(callCtx, model, contents, cfg)
	if err != nil {
		return "", classifyGemini(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	log.Debug().Str("model", model).Dur("elapsed", time.Since(start)).Msg("Gemini response")
	return visibleText(resp), nil
}

// visibleText concatenates the text parts of the first candidate, skipping thoughts.
func visibleText(resp *genai.GenerateContentResponse) string {
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		case apiErr.Code >= 500, apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	return classifyTransport(err)
}

// classifyTransport marks timeouts and network failures as unavailability.
func classifyTransport(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
