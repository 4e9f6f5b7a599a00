// Package engine derives growth, composition and liquidity ratios from a
// three-column balance sheet.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"finratio/internal/models"

	"github.com/rs/zerolog/log"
)

// MissingRequiredRowError reports that a required marker row is absent.
type MissingRequiredRowError struct {
	Marker string
}

func (e *MissingRequiredRowError) Error() string {
	return fmt.Sprintf("required row %q not found", e.Marker)
}

// ParseValue coerces a cell to a number. Anything that does not parse, and
// NaN or infinite values, count as 0.
func ParseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Coerce converts raw rows to line items. No row is dropped.
func Coerce(rows []models.RawRow) []models.LineItem {
	items := make([]models.LineItem, len(rows))
	for i, r := range rows {
		items[i] = models.LineItem{
			Label:   r.Label,
			Prior:   ParseValue(r.Prior),
			Current: ParseValue(r.Current),
		}
	}
	return items
}

// denom substitutes Epsilon for a zero denominator.
func denom(x float64) float64 {
	if x == 0 {
		return models.Epsilon
	}
	return x
}

// finite clamps an overflowed result to the largest float of the same sign.
func finite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}

// Growth is the percentage change from prior to current.
func Growth(prior, current float64) float64 {
	d := denom(prior)
	if diff := current - prior; !math.IsInf(diff, 0) {
		return finite(diff / d * 100)
	}
	return finite((current/d - prior/d) * 100)
}

// Share is value as a percentage of total.
func Share(value, total float64) float64 {
	return finite(value / denom(total) * 100)
}

// Find returns the index of the first item, in document order, whose label
// contains one of the marker fragments ignoring case, or -1.
func Find(items []models.LineItem, marker []string) int {
	for i, it := range items {
		label := strings.ToUpper(it.Label)
		for _, m := range marker {
			if m != "" && strings.Contains(label, strings.ToUpper(m)) {
				return i
			}
		}
	}
	return -1
}

// Derive coerces rows and computes the snapshot. It fails with
// *MissingRequiredRowError when no total assets row exists; a missing current
// assets or current liabilities row only makes the liquidity ratio unavailable.
func Derive(rows []models.RawRow, markers models.Markers) (*models.Snapshot, error) {
	return DeriveItems(Coerce(rows), markers)
}

// DeriveItems is Derive over already coerced line items.
func DeriveItems(items []models.LineItem, markers models.Markers) (*models.Snapshot, error) {
	markers = withDefaults(markers)

	total := Find(items, markers.TotalAssets)
	if total < 0 {
		return nil, &MissingRequiredRowError{Marker: markers.TotalAssets[0]}
	}
	totalPrior, totalCurrent := items[total].Prior, items[total].Current

	s := &models.Snapshot{
		Items:              make([]models.AnnotatedLineItem, len(items)),
		TotalAssetsPrior:   totalPrior,
		TotalAssetsCurrent: totalCurrent,
	}
	for i, it := range items {
		s.Items[i] = models.AnnotatedLineItem{
			LineItem:        it,
			GrowthPct:       Growth(it.Prior, it.Current),
			PriorSharePct:   Share(it.Prior, totalPrior),
			CurrentSharePct: Share(it.Current, totalCurrent),
		}
	}

	ca := Find(items, markers.CurrentAssets)
	cl := Find(items, markers.CurrentLiabilities)
	s.Liquidity = liquidity(items, ca, cl, markers)
	if ca >= 0 {
		g := s.Items[ca].GrowthPct
		s.CurrentAssetsGrowth = &g
	}

	log.Debug().
		Int("rows", len(items)).
		Int("total_assets_row", total).
		Bool("liquidity", s.Liquidity.Available).
		Msg("Derived snapshot")
	return s, nil
}

func liquidity(items []models.LineItem, ca, cl int, markers models.Markers) models.Liquidity {
	var l models.Liquidity
	if ca < 0 {
		l.Missing = append(l.Missing, markers.CurrentAssets[0])
	}
	if cl < 0 {
		l.Missing = append(l.Missing, markers.CurrentLiabilities[0])
	}
	if len(l.Missing) > 0 {
		return l
	}
	l.Available = true
	l.Prior = finite(items[ca].Prior / denom(items[cl].Prior))
	l.Current = finite(items[ca].Current / denom(items[cl].Current))
	l.Delta = finite(l.Current - l.Prior)
	return l
}

// withDefaults fills every empty marker list from models.DefaultMarkers.
func withDefaults(m models.Markers) models.Markers {
	if len(m.TotalAssets) == 0 {
		m.TotalAssets = models.DefaultMarkers.TotalAssets
	}
	if len(m.CurrentAssets) == 0 {
		m.CurrentAssets = models.DefaultMarkers.CurrentAssets
	}
	if len(m.CurrentLiabilities) == 0 {
		m.CurrentLiabilities = models.DefaultMarkers.CurrentLiabilities
	}
	return m
}
