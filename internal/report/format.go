package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a raw statement value as a thousands-grouped integer.
func FormatAmount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// Times renders a ratio, e.g. "2.00 times".
func Times(v float64) string {
	return fmt.Sprintf("%.2f times", v)
}

func Delta(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
