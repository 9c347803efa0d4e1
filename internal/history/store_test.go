package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
)

func TestAppend_CapKeepsMostRecent(t *testing.T) {
	store := NewStore(10)

	for i := 1; i <= 11; i++ {
		store.Append(models.DocKindResume, fmt.Sprintf("content %d", i), fmt.Sprintf("title %d", i))
	}

	entries := store.List(models.DocKindResume)
	require.Len(t, entries, 10)
	assert.Equal(t, "content 11", entries[0].Content)
	assert.Equal(t, "content 2", entries[9].Content)
}

func TestAppend_CapsAreIndependentPerKind(t *testing.T) {
	store := NewStore(2)

	store.Append(models.DocKindResume, "r1", "")
	store.Append(models.DocKindResume, "r2", "")
	store.Append(models.DocKindResume, "r3", "")
	store.Append(models.DocKindJobPosting, "j1", "")

	assert.Len(t, store.List(models.DocKindResume), 2)
	assert.Len(t, store.List(models.DocKindJobPosting), 1)
}

func TestAppend_AutoTitle(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	store := NewStoreAt(DefaultLimit, func() time.Time { return fixed })

	content := "## 1. 基本情報\n- 氏名：T.Y.\nさらに長い本文が続きます、三十文字を超えるはずです"
	entry := store.Append(models.DocKindResume, content, "")

	assert.True(t, strings.HasPrefix(entry.Title, "2025-06-01 12:30 - "), entry.Title)
	assert.True(t, strings.HasSuffix(entry.Title, "..."))
	assert.NotContains(t, entry.Title, "\n")

	body := strings.TrimSuffix(strings.TrimPrefix(entry.Title, "2025-06-01 12:30 - "), "...")
	assert.Equal(t, 30, len([]rune(body)))
}

func TestAppend_ExplicitTitleIsKept(t *testing.T) {
	store := NewStore(DefaultLimit)
	entry := store.Append(models.DocKindMatch, "content", "my title")
	assert.Equal(t, "my title", entry.Title)
}

func TestDelete(t *testing.T) {
	store := NewStore(DefaultLimit)
	store.Append(models.DocKindResume, "a", "")
	target := store.Append(models.DocKindResume, "b", "")

	require.True(t, store.Delete(models.DocKindResume, target.ID))
	assert.False(t, store.Delete(models.DocKindResume, target.ID))

	entries := store.List(models.DocKindResume)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Content)
}

func TestClear(t *testing.T) {
	store := NewStore(DefaultLimit)
	store.Append(models.DocKindResume, "a", "")
	store.Append(models.DocKindJobPosting, "b", "")

	store.Clear(models.DocKindResume)

	assert.Empty(t, store.List(models.DocKindResume))
	assert.Len(t, store.List(models.DocKindJobPosting), 1)
}

func TestExportImport_RoundTrip(t *testing.T) {
	// A stepping wall clock keeps CreatedAt free of monotonic readings,
	// so entries compare equal after a JSON round trip.
	tick := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	src := NewStoreAt(DefaultLimit, func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	})
	src.Append(models.DocKindResume, "resume one", "t1")
	src.Append(models.DocKindResume, "resume two", "t2")
	src.Append(models.DocKindJobPosting, "posting", "t3")

	payload, err := src.Export("1.2.0")
	require.NoError(t, err)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, "1.2.0", doc.AppVersion)
	assert.NotEmpty(t, doc.ExportDate)
	assert.Contains(t, doc.Data, "resume_history")
	assert.Contains(t, doc.Data, "job_posting_history")

	dst := NewStore(DefaultLimit)
	count, err := dst.Import(payload)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, src.List(models.DocKindResume), dst.List(models.DocKindResume))
	assert.Equal(t, src.List(models.DocKindJobPosting), dst.List(models.DocKindJobPosting))
}

func TestImport_ReplacesWholesale(t *testing.T) {
	src := NewStore(DefaultLimit)
	src.Append(models.DocKindResume, "new", "")
	payload, err := src.Export("1.2.0")
	require.NoError(t, err)

	dst := NewStore(DefaultLimit)
	dst.Append(models.DocKindResume, "old", "")

	count, err := dst.Import(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries := dst.List(models.DocKindResume)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Content)
}

func TestImport_MalformedDocument(t *testing.T) {
	store := NewStore(DefaultLimit)
	store.Append(models.DocKindResume, "keep", "")

	_, err := store.Import([]byte(`{"export_date": "2025-01-01"}`))
	assert.ErrorIs(t, err, ErrMalformedDocument)

	// Store untouched on failure.
	assert.Len(t, store.List(models.DocKindResume), 1)
}

func TestImport_InvalidJSON(t *testing.T) {
	store := NewStore(DefaultLimit)

	_, err := store.Import([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrParse)

	_, err = store.Import([]byte(`{"data": {"resume_history": "not a list"}}`))
	assert.ErrorIs(t, err, ErrParse)
}
