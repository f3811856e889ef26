package builder

import (
	"context"
	"fmt"
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/pagedef"
)

// PageSession tek bir sayfanın düzenleme oturumu.
type PageSession struct {
	saveGuard

	id       string
	def      pagedef.Definition
	selected string
}

type PageSnapshot struct {
	ID         string             `json:"id"`
	Definition pagedef.Definition `json:"definition"`
	Selected   string             `json:"selected,omitempty"`
}

func NewPageSession() *PageSession {
	return &PageSession{id: NewSessionID(), def: pagedef.Definition{Buttons: []models.PageButton{}}}
}

func OpenPageSession(ctx context.Context, store PageStore, pageID uint) (*PageSession, error) {
	d, err := store.GetPage(ctx, pageID)
	if err != nil {
		return nil, loadFailure(err)
	}
	s := NewPageSession()
	s.def = d.Clone()
	return s, nil
}

func RestorePageSession(snap PageSnapshot) *PageSession {
	s := &PageSession{id: snap.ID, def: snap.Definition.Clone(), selected: snap.Selected}
	if s.def.IndexOf(s.selected) < 0 {
		s.selected = ""
	}
	return s
}

func (s *PageSession) Snapshot() PageSnapshot {
	return PageSnapshot{ID: s.id, Definition: s.def.Clone(), Selected: s.selected}
}

func (s *PageSession) ID() string { return s.id }

func (s *PageSession) Definition() pagedef.Definition { return s.def.Clone() }

// Preview butonları çözülmüş public görünüm.
func (s *PageSession) Preview(ctx context.Context, loc pagedef.FormLocator) (pagedef.Public, error) {
	return pagedef.BuildPublic(ctx, s.def, loc)
}

func (s *PageSession) SelectedID() string { return s.selected }

func (s *PageSession) Select(buttonID string) error {
	if buttonID == "" {
		s.selected = ""
		return nil
	}
	if s.def.IndexOf(buttonID) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownItem, buttonID)
	}
	s.selected = buttonID
	return nil
}

func (s *PageSession) SetTitle(title string) { s.def = pagedef.SetTitle(s.def, title) }

func (s *PageSession) SetSlug(slug string) { s.def = pagedef.SetSlug(s.def, slug) }

func (s *PageSession) SetDescription(desc string) { s.def.Description = desc }

func (s *PageSession) SetContent(content string) { s.def.Content = content }

func (s *PageSession) AddButton() models.PageButton {
	d, b := pagedef.AddButton(s.def)
	s.def = d
	s.selected = b.ID
	return b
}

func (s *PageSession) UpdateButton(buttonID string, patch pagedef.ButtonPatch) {
	s.def = pagedef.UpdateButton(s.def, buttonID, patch)
}

func (s *PageSession) RemoveButton(buttonID string) {
	s.def = pagedef.RemoveButton(s.def, buttonID)
	if s.selected == buttonID {
		s.selected = ""
	}
}

// HasChanges başlık girilmişse veya en az bir buton varsa true.
func (s *PageSession) HasChanges() bool {
	return strings.TrimSpace(s.def.Title) != "" || len(s.def.Buttons) > 0
}

func (s *PageSession) Cancel(confirm Confirm) bool {
	if !s.HasChanges() {
		return true
	}
	return confirm != nil && confirm()
}

// Save mevcut sayfanın slug'ı allowSlugChange olmadan değişmez; bunu depo uygular.
func (s *PageSession) Save(ctx context.Context, store PageStore, allowSlugChange bool) (pagedef.Definition, error) {
	if err := pagedef.CheckSave(s.def); err != nil {
		return pagedef.Definition{}, err
	}
	if !s.begin() {
		return pagedef.Definition{}, ErrSaveInFlight
	}
	defer s.end()

	var (
		saved pagedef.Definition
		err   error
	)
	if s.def.ID == 0 {
		saved, err = store.CreatePage(ctx, s.def.Clone())
	} else {
		saved, err = store.UpdatePage(ctx, s.def.Clone(), allowSlugChange)
	}
	if err != nil {
		return pagedef.Definition{}, saveFailure(err)
	}
	s.def = saved.Clone()
	return saved, nil
}
