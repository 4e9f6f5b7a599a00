package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"finratio/internal/assistant"
	"finratio/internal/cache"
	"finratio/internal/config"
	"finratio/internal/llmservice"
	"finratio/internal/logging"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// app is what every command needs: configuration, the assistant bridge and
// the snapshot cache.
type app struct {
	cfg    *config.Config
	bridge *assistant.Bridge
	memo   *cache.Memo

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	render func(string) string
}

// newApp loads the configuration and fails before anything else when the API
// key is missing. A generator that cannot be built only disables the assistant.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logging.Setup(cfg.Log, *verbose, os.Stderr); err != nil {
		return nil, err
	}
	log.Debug().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("Loaded config")

	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	memo, err := cache.NewMemo(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	gen, err := llmservice.New(ctx, &cfg.LLM)
	if err != nil {
		log.Warn().Err(err).Msg("Text generation unavailable")
	}

	return &app{
		cfg:    cfg,
		bridge: assistant.NewBridge(gen, cfg.LLM.Model),
		memo:   memo,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		render: renderTerminal,
	}, nil
}

// renderTerminal pretty prints markdown, falling back to the raw text.
func renderTerminal(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		log.Debug().Err(err).Msg("Markdown rendering failed")
		return text
	}
	return out
}

func (a *app) printMarkdown(text string) {
	fmt.Fprintln(a.out, a.render(text))
}

// assistantMessage turns an assistant failure into the text shown to the user.
func assistantMessage(err error) string {
	var ae *assistant.Error
	if errors.As(err, &ae) {
		return ae.UserMessage()
	}
	return err.Error()
}
