package cache

import (
	"errors"
	"testing"

	"finratio/internal/engine"
	"finratio/internal/models"
)

var rows = []models.RawRow{
	{Label: "CURRENT ASSETS", Prior: "500", Current: "600"},
	{Label: "CURRENT LIABILITIES", Prior: "250", Current: "300"},
	{Label: "TOTAL ASSETS", Prior: "1000", Current: "1200"},
}

func countingMemo(t *testing.T, size int) (*Memo, *int) {
	t.Helper()
	m, err := NewMemo(size)
	if err != nil {
		t.Fatalf("NewMemo() failed: %v", err)
	}
	calls := 0
	m.derive = func(r []models.RawRow, mk models.Markers) (*models.Snapshot, error) {
		calls++
		return engine.Derive(r, mk)
	}
	return m, &calls
}

func TestMemo_Hit(t *testing.T) {
	m, calls := countingMemo(t, 4)

	first, err := m.Derive(rows, models.DefaultMarkers)
	if err != nil {
		t.Fatalf("Derive() failed: %v", err)
	}
	copied := append([]models.RawRow(nil), rows...)
	second, err := m.Derive(copied, models.DefaultMarkers)
	if err != nil {
		t.Fatalf("Derive() failed: %v", err)
	}
	if first != second || *calls != 1 {
		t.Errorf("expected one computation and a shared snapshot, got %d calls", *calls)
	}
}

func TestMemo_ErrorsNotCached(t *testing.T) {
	m, calls := countingMemo(t, 4)
	bad := rows[:2]

	for i := 0; i < 2; i++ {
		_, err := m.Derive(bad, models.DefaultMarkers)
		var missing *engine.MissingRequiredRowError
		if !errors.As(err, &missing) {
			t.Fatalf("Derive() error = %v, want *engine.MissingRequiredRowError", err)
		}
	}
	if *calls != 2 || m.Len() != 0 {
		t.Errorf("calls = %d, cached = %d; errors must not be cached", *calls, m.Len())
	}
}

func TestMemo_Eviction(t *testing.T) {
	m, calls := countingMemo(t, 1)
	other := append([]models.RawRow{{Label: "Cash", Prior: "1", Current: "2"}}, rows...)

	m.Derive(rows, models.DefaultMarkers)
	m.Derive(other, models.DefaultMarkers)
	m.Derive(rows, models.DefaultMarkers)
	if *calls != 3 {
		t.Errorf("calls = %d, want 3 with a single entry cache", *calls)
	}
}

func TestKey(t *testing.T) {
	base := Key(rows, models.DefaultMarkers)
	if base != Key(rows, models.DefaultMarkers) {
		t.Error("Key() is not deterministic")
	}

	shifted := []models.RawRow{{Label: "AB", Prior: "C"}, {Label: ""}}
	if Key(shifted, models.Markers{}) == Key([]models.RawRow{{Label: "A", Prior: "BC"}, {Label: ""}}, models.Markers{}) {
		t.Error("moving text between cells must change the key")
	}

	custom := models.Markers{TotalAssets: []string{"SUM"}}
	if base == Key(rows, custom) {
		t.Error("markers must be part of the key")
	}
}
