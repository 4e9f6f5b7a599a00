package report

import (
	"bytes"
	"fmt"
	"strings"

	"finratio/internal/models"

	md "github.com/nao1215/markdown"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var tableHeader = []string{"Item", "Prior period", "Current period", "Growth (%)", "Share prior (%)", "Share current (%)"}

func tableRows(s *models.Snapshot) [][]string {
	rows := make([][]string, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, []string{
			it.Label,
			FormatAmount(it.Prior),
			FormatAmount(it.Current),
			Percent(it.GrowthPct),
			Percent(it.PriorSharePct),
			Percent(it.CurrentSharePct),
		})
	}
	return rows
}

// Table renders the annotated line items as a markdown table.
func Table(s *models.Snapshot) string {
	var buf bytes.Buffer
	return md.NewMarkdown(&buf).
		Table(md.TableSet{Header: tableHeader, Rows: tableRows(s)}).
		String()
}

// LiquiditySummary describes the current ratio, or why it is not available.
func LiquiditySummary(l models.Liquidity) string {
	if !l.Available {
		return fmt.Sprintf("Current ratio not available: no %s row found.", strings.Join(l.Missing, " or "))
	}
	return fmt.Sprintf("Current ratio: %s (prior period %s, change %s)", Times(l.Current), Times(l.Prior), Delta(l.Delta))
}

// Markdown renders the full report: table, liquidity and current assets growth.
func Markdown(s *models.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Growth and asset structure")
	doc.Table(md.TableSet{Header: tableHeader, Rows: tableRows(s)})

	doc.H2("Liquidity")
	lines := []string{LiquiditySummary(s.Liquidity)}
	if s.CurrentAssetsGrowth != nil {
		lines = append(lines, "Current assets growth: "+Percent(*s.CurrentAssetsGrowth))
	}
	doc.BulletList(lines...)

	return doc.String()
}

// HTML converts markdown, typically Markdown plus the analysis, to an HTML fragment.
func HTML(text string) (string, error) {
	conv := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := conv.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
