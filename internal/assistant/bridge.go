package assistant

import (
	"context"
	"fmt"
	"sync"

	"finratio/internal/helper"
	"finratio/internal/llmservice"
	"finratio/internal/models"
	"finratio/internal/report"

	"github.com/rs/zerolog/log"
)

// Bridge carries everything needed to talk to the text generation service.
// It replaces any process-wide client: callers build one and pass it around.
type Bridge struct {
	Generator llmservice.Generator
	Model     string
}

func NewBridge(gen llmservice.Generator, model string) *Bridge {
	return &Bridge{Generator: gen, Model: model}
}

// BuildAnalysisPrompt embeds the annotated table, both current ratios and the
// current assets growth. Missing figures are written as N/A.
func BuildAnalysisPrompt(s *models.Snapshot) string {
	growth := models.NotAvailable
	if s.CurrentAssetsGrowth != nil {
		growth = fmt.Sprintf("%.2f", *s.CurrentAssetsGrowth)
	}
	prior, current := models.NotAvailable, models.NotAvailable
	if s.Liquidity.Available {
		prior = fmt.Sprintf("%.2f", s.Liquidity.Prior)
		current = fmt.Sprintf("%.2f", s.Liquidity.Current)
	}
	return fmt.Sprintf(models.AnalysisPromptTemplate, growth, prior, current, report.Table(s))
}

// Analyze requests a one-shot commentary on the snapshot. It does not touch any
// chat session. Failures are always *Error.
func (b *Bridge) Analyze(ctx context.Context, s *models.Snapshot) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &Error{Kind: KindUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if s == nil {
		return "", &Error{Kind: KindUnknown, Err: fmt.Errorf("no data to analyze")}
	}
	text, err = b.generate(ctx, llmservice.Request{
		System: models.AnalysisSystemPrompt,
		Turns:  []models.ConversationTurn{{Role: models.RoleUser, Text: BuildAnalysisPrompt(s)}},
	})
	if err != nil {
		log.Error().Err(err).Msg("Analysis failed")
		return "", toError(err)
	}
	return text, nil
}

func (b *Bridge) generate(ctx context.Context, req llmservice.Request) (string, error) {
	if b == nil || b.Generator == nil {
		return "", &Error{Kind: KindUnavailable, Err: fmt.Errorf("no text generation service configured")}
	}
	req.Model = b.Model
	return b.Generator.Generate(ctx, req)
}

// NewSession starts an empty chat session bound to the bridge.
func (b *Bridge) NewSession() (*Session, error) {
	if b == nil || b.Generator == nil {
		return nil, &Error{Kind: KindUnavailable, Err: fmt.Errorf("no text generation service configured")}
	}
	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	log.Debug().Str("session", id).Msg("Chat session started")
	return &Session{id: id, bridge: b}, nil
}

// Session is an append-only conversation. SendTurn calls are serialized, so
// turns of concurrent callers never interleave.
type Session struct {
	id     string
	bridge *Bridge

	mu    sync.Mutex
	turns []models.ConversationTurn
}

func (s *Session) ID() string { return s.id }

// SendTurn appends the user turn, sends the whole history and appends the
// reply on success. On failure the user turn stays in the history and the
// returned error is an *Error. An empty reply is not a failure.
func (s *Session) SendTurn(ctx context.Context, text string) (reply string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, models.ConversationTurn{Role: models.RoleUser, Text: text})

	defer func() {
		if r := recover(); r != nil {
			reply, err = "", &Error{Kind: KindUnknown, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	history := make([]models.ConversationTurn, len(s.turns))
	copy(history, s.turns)
	reply, err = s.bridge.generate(ctx, llmservice.Request{Turns: history})
	if err != nil {
		log.Error().Err(err).Str("session", s.id).Msg("Chat turn failed")
		return "", toError(err)
	}

	s.turns = append(s.turns, models.ConversationTurn{Role: models.RoleAssistant, Text: reply})
	return reply, nil
}

// Turns returns a copy of the history in order.
func (s *Session) Turns() []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}
