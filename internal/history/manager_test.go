package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
	"github.com/ktsuchiya/globalmatch-api/internal/utils"
)

type fakeMirror struct {
	snapshots map[string][]byte
	failing   bool
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{snapshots: make(map[string][]byte)}
}

func (m *fakeMirror) SaveSnapshot(_ context.Context, sessionID string, payload []byte) error {
	if m.failing {
		return errors.New("datastore unreachable")
	}
	m.snapshots[sessionID] = payload
	return nil
}

func (m *fakeMirror) LoadSnapshot(_ context.Context, sessionID string) ([]byte, error) {
	if m.failing {
		return nil, errors.New("datastore unreachable")
	}
	return m.snapshots[sessionID], nil
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	mgr := NewManager(DefaultLimit, "1.2.0", nil, utils.NewLogger("error"))
	ctx := context.Background()

	mgr.Get(ctx, "session-a").Append(models.DocKindResume, "for a", "")

	assert.Empty(t, mgr.Get(ctx, "session-b").List(models.DocKindResume))
	assert.Len(t, mgr.Get(ctx, "session-a").List(models.DocKindResume), 1)
}

func TestManager_PersistAndRestoreThroughMirror(t *testing.T) {
	mirror := newFakeMirror()
	ctx := context.Background()

	first := NewManager(DefaultLimit, "1.2.0", mirror, utils.NewLogger("error"))
	first.Get(ctx, "session-a").Append(models.DocKindResume, "mirrored content", "")
	first.Persist(ctx, "session-a")
	require.NotEmpty(t, mirror.snapshots["session-a"])

	// A fresh manager, as after a restart, restores from the mirror.
	second := NewManager(DefaultLimit, "1.2.0", mirror, utils.NewLogger("error"))
	entries := second.Get(ctx, "session-a").List(models.DocKindResume)
	require.Len(t, entries, 1)
	assert.Equal(t, "mirrored content", entries[0].Content)
}

func TestManager_MirrorFailuresNeverRaise(t *testing.T) {
	mirror := newFakeMirror()
	mirror.failing = true
	ctx := context.Background()

	mgr := NewManager(DefaultLimit, "1.2.0", mirror, utils.NewLogger("error"))

	store := mgr.Get(ctx, "session-a")
	store.Append(models.DocKindResume, "content", "")
	mgr.Persist(ctx, "session-a") // must not panic or propagate

	assert.Len(t, store.List(models.DocKindResume), 1)
}
