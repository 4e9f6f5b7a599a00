package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"finratio/internal/engine"
	"finratio/internal/helper"
	"finratio/internal/models"
	"finratio/internal/parser"
	"finratio/internal/report"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type analyzeCmd struct {
	ai       bool
	chat     bool
	jsonOut  bool
	htmlPath string
	xlsxPath string
}

func (*analyzeCmd) Name() string { return "analyze" }
func (*analyzeCmd) Synopsis() string {
	return "Compute growth, asset structure and current ratio of a balance sheet."
}
func (*analyzeCmd) Usage() string {
	return `analyze [-ai] [-chat] [-json] [-html out.html] [-xlsx out.xlsx] <file.xlsx|file.csv>:
  Read a three column balance sheet (item, prior period, current period),
  print the annotated table and the current ratio, and optionally ask the
  assistant for a commentary.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.ai, "ai", false, "Request an AI commentary on the figures")
	f.BoolVar(&c.chat, "chat", false, "Start a chat session after the analysis")
	f.BoolVar(&c.jsonOut, "json", false, "Print the snapshot as JSON instead of a table")
	f.StringVar(&c.htmlPath, "html", "", "Write the report as HTML to this file")
	f.StringVar(&c.xlsxPath, "xlsx", "", "Write the annotated table to this workbook")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "analyze requires exactly one input file")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return c.run(ctx, a, f.Arg(0))
}

func (c *analyzeCmd) run(ctx context.Context, a *app, file string) subcommands.ExitStatus {
	snap, err := a.load(file)
	if err != nil {
		fmt.Fprintln(a.errOut, uploadMessage(err))
		return subcommands.ExitFailure
	}

	doc := report.Markdown(snap)
	if c.jsonOut {
		if err := helper.PrettyPrint(a.out, snap); err != nil {
			fmt.Fprintln(a.errOut, "Error:", err)
			return subcommands.ExitFailure
		}
	} else {
		a.printMarkdown(doc)
	}
	if !snap.Liquidity.Available {
		fmt.Fprintf(a.errOut, "Warning: the current ratio needs a %s row.\n",
			strings.Join(snap.Liquidity.Missing, " and a "))
	}

	if c.ai {
		fmt.Fprintln(a.errOut, "Requesting analysis...")
		text, err := a.bridge.Analyze(ctx, snap)
		if err != nil {
			fmt.Fprintln(a.errOut, assistantMessage(err))
		} else {
			analysis := "## AI analysis\n\n" + text
			a.printMarkdown(analysis)
			doc += "\n" + analysis + "\n"
		}
	}

	status := subcommands.ExitSuccess
	if c.htmlPath != "" {
		if err := writeHTML(c.htmlPath, file, doc); err != nil {
			log.Error().Err(err).Str("path", c.htmlPath).Msg("Error writing HTML report")
			status = subcommands.ExitFailure
		}
	}
	if c.xlsxPath != "" {
		if err := helper.CreateFolder(c.xlsxPath); err != nil {
			log.Error().Err(err).Msg("Error creating folder")
			status = subcommands.ExitFailure
		} else if err := report.ExportXLSX(c.xlsxPath, snap); err != nil {
			log.Error().Err(err).Str("path", c.xlsxPath).Msg("Error writing workbook")
			status = subcommands.ExitFailure
		}
	}

	if c.chat {
		if err := runChat(ctx, a); err != nil {
			fmt.Fprintln(a.errOut, "Chat failed:", err)
			return subcommands.ExitFailure
		}
	}
	return status
}

// load reads the table and derives its snapshot through the cache.
func (a *app) load(file string) (*models.Snapshot, error) {
	rows, err := parser.ReadTable(file)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", file).Int("rows", len(rows)).Msg("Read table")
	return a.memo.Derive(rows, a.cfg.Markers)
}

// uploadMessage converts per-upload errors into user facing text.
func uploadMessage(err error) string {
	var structural *parser.StructuralInputError
	var missing *engine.MissingRequiredRowError
	switch {
	case errors.As(err, &structural):
		return fmt.Sprintf("The file must have exactly 3 columns (item, prior period, current period), found %d.", structural.Columns)
	case errors.As(err, &missing):
		return fmt.Sprintf("The %s row was not found; it is required to compute the asset structure.", missing.Marker)
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return "Unsupported file type, use .xlsx or .csv."
	default:
		return fmt.Sprintf("Could not process the file: %v", err)
	}
}

func writeHTML(path, title, doc string) error {
	body, err := report.HTML(doc)
	if err != nil {
		return err
	}
	if err := helper.CreateFolder(path); err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>Balance sheet analysis: %s</title>\n", html.EscapeString(filepath.Base(title)))
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>\n")
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
