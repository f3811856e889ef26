package builder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"helpdesk.link/models"
	"helpdesk.link/pkg/pagedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

type fakePageStore struct {
	pages     map[uint]pagedef.Definition
	lastAllow bool
	calls     int
	err       error
}

func (f *fakePageStore) GetPage(_ context.Context, id uint) (pagedef.Definition, error) {
	d, ok := f.pages[id]
	if !ok {
		return pagedef.Definition{}, ErrNotFound
	}
	return d, nil
}

func (f *fakePageStore) CreatePage(_ context.Context, d pagedef.Definition) (pagedef.Definition, error) {
	f.calls++
	if f.err != nil {
		return pagedef.Definition{}, f.err
	}
	d.ID = uint(len(f.pages) + 1)
	f.pages[d.ID] = d
	return d, nil
}

func (f *fakePageStore) UpdatePage(_ context.Context, d pagedef.Definition, allow bool) (pagedef.Definition, error) {
	f.calls++
	f.lastAllow = allow
	if f.err != nil {
		return pagedef.Definition{}, f.err
	}
	f.pages[d.ID] = d
	return d, nil
}

type locator map[uint]string

func (l locator) PublicURLForForm(_ context.Context, id uint) (string, error) {
	if k, ok := l[id]; ok {
		return k, nil
	}
	return "", fmt.Errorf("form %d: %w", id, ErrNotFound)
}

func TestPageSessionButtons(t *testing.T) {
	sequentialIDs(t)
	s := NewPageSession()

	b := s.AddButton()
	assert.Equal(t, b.ID, s.SelectedID())
	assert.Equal(t, pagedef.DefaultButtonLabel, b.Label)

	s.UpdateButton(b.ID, pagedef.ButtonPatch{Target: ptr(models.FormTarget(5))})
	s.UpdateButton(b.ID, pagedef.ButtonPatch{Target: ptr(models.URLTarget("https://exemplo.com"))})
	got, _ := s.Definition().Button(b.ID)
	_, hasForm := got.Target.FormID()
	u, hasURL := got.Target.URL()
	assert.False(t, hasForm)
	assert.True(t, hasURL)
	assert.Equal(t, "https://exemplo.com", u)

	s.RemoveButton(b.ID)
	assert.Empty(t, s.SelectedID())
	assert.Empty(t, s.Definition().Buttons)
}

func TestPageSessionPreviewResolvesPublicRoute(t *testing.T) {
	sequentialIDs(t)
	s := NewPageSession()
	s.SetTitle("Central de Ajuda")
	b := s.AddButton()
	s.UpdateButton(b.ID, pagedef.ButtonPatch{Target: ptr(models.FormTarget(9))})

	p, err := s.Preview(context.Background(), locator{9: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "central-de-ajuda", p.Slug)
	require.Len(t, p.Buttons, 1)
	assert.Equal(t, pagedef.Action{Kind: pagedef.ActionForm, Href: "/f/abc123"}, p.Buttons[0].Action)
}

func TestPageSessionSave(t *testing.T) {
	sequentialIDs(t)
	store := &fakePageStore{pages: map[uint]pagedef.Definition{}}
	s := NewPageSession()

	_, err := s.Save(context.Background(), store, false)
	assert.ErrorIs(t, err, pagedef.ErrTitleRequired)
	assert.Zero(t, store.calls)

	s.SetTitle("Boas-vindas")
	saved, err := s.Save(context.Background(), store, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, saved.ID)

	s.SetSlug("Nova Rota")
	_, err = s.Save(context.Background(), store, true)
	require.NoError(t, err)
	assert.True(t, store.lastAllow)
	assert.Equal(t, "nova-rota", store.pages[1].Slug)

	store.err = messageErr("Slug já em uso")
	_, err = s.Save(context.Background(), store, true)
	var serr *SaveError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Slug já em uso", serr.Message)
}

func TestPageSessionCancel(t *testing.T) {
	sequentialIDs(t)
	s := NewPageSession()
	assert.True(t, s.Cancel(nil))
	s.AddButton()
	assert.False(t, s.Cancel(func() bool { return false }))
	assert.True(t, s.Cancel(func() bool { return true }))
}

func TestOpenPageSession(t *testing.T) {
	store := &fakePageStore{pages: map[uint]pagedef.Definition{2: {ID: 2, Title: "T", Slug: "t"}}}
	s, err := OpenPageSession(context.Background(), store, 2)
	require.NoError(t, err)
	assert.Equal(t, "t", s.Definition().Slug)

	_, err = OpenPageSession(context.Background(), store, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageSnapshotDropsStaleSelection(t *testing.T) {
	r := RestorePageSession(PageSnapshot{ID: "s", Definition: pagedef.Definition{Title: "T"}, Selected: "gone"})
	assert.Empty(t, r.SelectedID())
}
