package report

import (
	"fmt"

	"finratio/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
)

const (
	sheetName     = "Analysis"
	amountFormat  = "#,##0"
	percentFormat = "0.00"
)

// ExportXLSX writes the annotated table and the liquidity figures to a workbook at path.
func ExportXLSX(path string, s *models.Snapshot) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range tableHeader {
		header.AddCell().SetString(h)
	}
	for _, it := range s.Items {
		row := sheet.AddRow()
		row.AddCell().SetString(it.Label)
		row.AddCell().SetFloatWithFormat(it.Prior, amountFormat)
		row.AddCell().SetFloatWithFormat(it.Current, amountFormat)
		row.AddCell().SetFloatWithFormat(it.GrowthPct, percentFormat)
		row.AddCell().SetFloatWithFormat(it.PriorSharePct, percentFormat)
		row.AddCell().SetFloatWithFormat(it.CurrentSharePct, percentFormat)
	}

	liq := sheet.AddRow()
	liq.AddCell().SetString("Current ratio")
	if s.Liquidity.Available {
		liq.AddCell().SetFloatWithFormat(s.Liquidity.Prior, percentFormat)
		liq.AddCell().SetFloatWithFormat(s.Liquidity.Current, percentFormat)
	} else {
		liq.AddCell().SetString(models.NotAvailable)
		liq.AddCell().SetString(models.NotAvailable)
	}

	if err := file.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("rows", len(s.Items)).Msg("Exported workbook")
	return nil
}
