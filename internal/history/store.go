// Package history keeps per-session result history: a bounded,
// most-recent-first list per document kind, with JSON export/import and an
// optional best-effort mirror into the datastore.
package history

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
)

// DefaultLimit is the hard cap per kind. Early versions of the product
// capped at 10; it was later widened.
const DefaultLimit = 200

const historyKeySuffix = "_history"

var (
	ErrMalformedDocument = errors.New("import document is missing the data section")
	ErrParse             = errors.New("import document is not valid JSON")
)

// ExportDocument is the interchange shape for history export/import.
type ExportDocument struct {
	ExportDate string                           `json:"export_date"`
	AppVersion string                           `json:"app_version"`
	Data       map[string][]models.HistoryEntry `json:"data"`
}

// Store holds one session's history. All state is session-scoped; nothing
// here is shared across sessions.
type Store struct {
	mu    sync.Mutex
	limit int
	lists map[models.DocKind][]models.HistoryEntry
	now   func() time.Time
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		lists: make(map[models.DocKind][]models.HistoryEntry),
		now:   time.Now,
	}
}

// NewStoreAt fixes the store's clock. Used by tests.
func NewStoreAt(limit int, now func() time.Time) *Store {
	s := NewStore(limit)
	s.now = now
	return s
}

// Append inserts at the head and truncates the tail past the cap. When no
// title is supplied one is derived from the timestamp and the first 30
// characters of content.
func (s *Store) Append(kind models.DocKind, content, title string) models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if title == "" {
		title = autoTitle(content, now)
	}

	entry := models.HistoryEntry{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		Title:     title,
		Content:   content,
		CreatedAt: now,
	}

	list := append([]models.HistoryEntry{entry}, s.lists[kind]...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}
	s.lists[kind] = list

	return entry
}

// List returns the entries for a kind, most recent first.
func (s *Store) List(kind models.DocKind) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryEntry, len(s.lists[kind]))
	copy(out, s.lists[kind])
	return out
}

// Delete removes one entry by id. Returns false if the id was not present.
func (s *Store) Delete(kind models.DocKind, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[kind]
	for i, entry := range list {
		if entry.ID == id {
			s.lists[kind] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops all entries for a kind.
func (s *Store) Clear(kind models.DocKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, kind)
}

// Export serializes every kind present in the store.
func (s *Store) Export(appVersion string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(map[string][]models.HistoryEntry, len(s.lists))
	for kind, list := range s.lists {
		copied := make([]models.HistoryEntry, len(list))
		copy(copied, list)
		data[string(kind)+historyKeySuffix] = copied
	}

	doc := ExportDocument{
		ExportDate: s.now().Format(time.RFC3339),
		AppVersion: appVersion,
		Data:       data,
	}
	return json.Marshal(doc)
}

// Import replaces each kind's list wholesale with the document's contents
// and reports the total number of entries imported. The store is left
// untouched on any failure.
func (s *Store) Import(raw []byte) (int, error) {
	var probe struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0, ErrParse
	}
	if probe.Data == nil {
		return 0, ErrMalformedDocument
	}

	parsed := make(map[models.DocKind][]models.HistoryEntry)
	count := 0
	for key, rawList := range probe.Data {
		kind, ok := strings.CutSuffix(key, historyKeySuffix)
		if !ok {
			continue
		}
		var list []models.HistoryEntry
		if err := json.Unmarshal(rawList, &list); err != nil {
			return 0, ErrParse
		}
		if len(list) > s.limit {
			list = list[:s.limit]
		}
		parsed[models.DocKind(kind)] = list
		count += len(list)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for kind, list := range parsed {
		s.lists[kind] = list
	}
	return count, nil
}

func autoTitle(content string, now time.Time) string {
	flat := strings.ReplaceAll(content, "\n", " ")
	runes := []rune(flat)
	if len(runes) > 30 {
		flat = string(runes[:30])
	}
	return now.Format("2006-01-02 15:04") + " - " + flat + "..."
}
