package services

import (
	"context"
	"testing"
	"time"

	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := NewMemoryBuilderSessionStore(time.Hour)
	ctx := models.WithUserID(context.Background(), 1)

	fs := builder.NewFormSession()
	fs.SetName("Rascunho")
	f := fs.AddField()
	require.NoError(t, store.SaveForm(ctx, fs))

	loaded, err := store.LoadForm(ctx, fs.ID())
	require.NoError(t, err)
	assert.Equal(t, "Rascunho", loaded.Definition().Name)
	assert.Equal(t, f.ID, loaded.SelectedID())

	_, err = store.LoadPage(ctx, fs.ID())
	assert.ErrorIs(t, err, ErrBuilderSessionNotFound, "kind mismatch")

	other := models.WithUserID(context.Background(), 2)
	_, err = store.LoadForm(other, fs.ID())
	assert.ErrorIs(t, err, ErrBuilderSessionNotFound, "foreign owner")

	require.NoError(t, store.Delete(ctx, fs.ID()))
	_, err = store.LoadForm(ctx, fs.ID())
	assert.ErrorIs(t, err, ErrBuilderSessionNotFound)
}

func TestMemorySessionStoreRequiresUser(t *testing.T) {
	store := NewMemoryBuilderSessionStore(time.Hour)
	assert.ErrorIs(t, store.SavePage(context.Background(), builder.NewPageSession()), ErrUnauthenticated)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := NewMemoryBuilderSessionStore(time.Minute)
	mem := store.backend.(*memoryBackend)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	ctx := models.WithUserID(context.Background(), 1)
	ps := builder.NewPageSession()
	ps.SetTitle("Ajuda")
	require.NoError(t, store.SavePage(ctx, ps))

	now = now.Add(59 * time.Second)
	_, err := store.LoadPage(ctx, ps.ID())
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.LoadPage(ctx, ps.ID())
	assert.ErrorIs(t, err, ErrBuilderSessionNotFound)
}

func TestSaveLock(t *testing.T) {
	store := NewMemoryBuilderSessionStore(time.Hour)
	ctx := context.Background()

	release, err := store.AcquireSaveLock(ctx, "s1")
	require.NoError(t, err)

	_, err = store.AcquireSaveLock(ctx, "s1")
	assert.ErrorIs(t, err, builder.ErrSaveInFlight)

	other, err := store.AcquireSaveLock(ctx, "s2")
	require.NoError(t, err)
	other()

	release()
	again, err := store.AcquireSaveLock(ctx, "s1")
	require.NoError(t, err)
	again()
}

func TestMemorySessionStoreSweepsAbandonedSessions(t *testing.T) {
	store := NewMemoryBuilderSessionStore(time.Minute)
	mem := store.backend.(*memoryBackend)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return now }

	ctx := models.WithUserID(context.Background(), 1)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SavePage(ctx, builder.NewPageSession()))
	}
	release, err := store.AcquireSaveLock(ctx, "s1")
	require.NoError(t, err)
	release()
	require.Len(t, mem.entries, 3)

	now = now.Add(2 * time.Minute)
	fresh := builder.NewPageSession()
	require.NoError(t, store.SavePage(ctx, fresh))
	assert.Len(t, mem.entries, 1)

	now = now.Add(2 * time.Minute)
	_, err = store.AcquireSaveLock(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, mem.entries, 1, "only the new lock remains")
}
