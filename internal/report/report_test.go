package report

import (
	"path/filepath"
	"strings"
	"testing"

	"finratio/internal/models"

	"github.com/tealeg/xlsx"
)

func sampleSnapshot() *models.Snapshot {
	growth := 20.0
	return &models.Snapshot{
		Items: []models.AnnotatedLineItem{
			{LineItem: models.LineItem{Label: "Current assets", Prior: 500, Current: 600}, GrowthPct: 20, PriorSharePct: 50, CurrentSharePct: 50},
			{LineItem: models.LineItem{Label: "Current liabilities", Prior: 250, Current: 300}, GrowthPct: 20, PriorSharePct: 25, CurrentSharePct: 25},
			{LineItem: models.LineItem{Label: "Total assets", Prior: 1000, Current: 1200000}, GrowthPct: 119900, PriorSharePct: 100, CurrentSharePct: 100},
		},
		TotalAssetsPrior:    1000,
		TotalAssetsCurrent:  1200000,
		Liquidity:           models.Liquidity{Available: true, Prior: 2, Current: 2, Delta: 0},
		CurrentAssetsGrowth: &growth,
	}
}

func TestFormatters(t *testing.T) {
	testCases := []struct {
		got, want string
	}{
		{FormatAmount(1000000), "1,000,000"},
		{FormatAmount(-1234.6), "-1,235"},
		{FormatAmount(0), "0"},
		{Percent(25), "25.00%"},
		{Percent(-3.14159), "-3.14%"},
		{Times(2), "2.00 times"},
		{Delta(0), "+0.00"},
		{Delta(-0.5), "-0.50"},
	}
	for _, tc := range testCases {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleSnapshot())
	for _, want := range []string{
		"Total assets", "1,200,000", "100.00%", "20.00%",
		"Current ratio: 2.00 times (prior period 2.00 times, change +0.00)",
		"Current assets growth: 20.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestLiquiditySummary_NotAvailable(t *testing.T) {
	got := LiquiditySummary(models.Liquidity{Missing: []string{models.MarkerCurrentLiabilities}})
	if got != "Current ratio not available: no CURRENT LIABILITIES row found." {
		t.Errorf("LiquiditySummary() = %q", got)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(Table(sampleSnapshot()))
	if err != nil {
		t.Fatalf("HTML() failed: %v", err)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "Total assets</td>") {
		t.Errorf("HTML() did not render a table:\n%s", out)
	}
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := ExportXLSX(path, sampleSnapshot()); err != nil {
		t.Fatalf("ExportXLSX() failed: %v", err)
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		t.Fatalf("sheet %q not found", sheetName)
	}
	if got := sheet.Rows[0].Cells[0].String(); got != tableHeader[0] {
		t.Errorf("header = %q, want %q", got, tableHeader[0])
	}
	if got := sheet.Rows[3].Cells[0].String(); got != "Total assets" {
		t.Errorf("row 3 label = %q", got)
	}
	v, err := sheet.Rows[3].Cells[2].Float()
	if err != nil || v != 1200000 {
		t.Errorf("row 3 current = %v, %v", v, err)
	}
	if got := sheet.Rows[4].Cells[0].String(); got != "Current ratio" {
		t.Errorf("liquidity label = %q", got)
	}
}
