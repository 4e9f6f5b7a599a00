package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"finratio/internal/engine"
	"finratio/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// Memo remembers derived snapshots by the content of the uploaded table.
// Re-rendering the same upload does not recompute it.
type Memo struct {
	snapshots *lru.Cache[string, *models.Snapshot]
	derive    func([]models.RawRow, models.Markers) (*models.Snapshot, error)
}

func NewMemo(size int) (*Memo, error) {
	c, err := lru.New[string, *models.Snapshot](size)
	if err != nil {
		return nil, err
	}
	return &Memo{snapshots: c, derive: engine.Derive}, nil
}

// Derive returns the cached snapshot for rows and markers, computing it on a
// miss. Errors are never cached.
func (m *Memo) Derive(rows []models.RawRow, markers models.Markers) (*models.Snapshot, error) {
	key := Key(rows, markers)
	if s, ok := m.snapshots.Get(key); ok {
		log.Debug().Str("key", key[:12]).Msg("Snapshot cache hit")
		return s, nil
	}
	s, err := m.derive(rows, markers)
	if err != nil {
		return nil, err
	}
	m.snapshots.Add(key, s)
	return s, nil
}

func (m *Memo) Len() int {
	return m.snapshots.Len()
}

// Key hashes the rows and markers. Every field is length prefixed so that
// shifting text between cells changes the key.
func Key(rows []models.RawRow, markers models.Markers) string {
	h := sha256.New()
	for _, r := range rows {
		writeField(h, r.Label)
		writeField(h, r.Prior)
		writeField(h, r.Current)
	}
	for _, group := range [][]string{markers.TotalAssets, markers.CurrentAssets, markers.CurrentLiabilities} {
		writeField(h, "|")
		for _, alias := range group {
			writeField(h, alias)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
