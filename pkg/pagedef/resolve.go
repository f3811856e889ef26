package pagedef

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"helpdesk.link/models"
)

// PublicFormPathPrefix yayınlanmış formların public rotası.
const PublicFormPathPrefix = "/f/"

// PublicPagePathPrefix yayınlanmış sayfaların public rotası.
const PublicPagePathPrefix = "/p/"

func PublicFormPath(publicURL string) string {
	return PublicFormPathPrefix + url.PathEscape(publicURL)
}

func PublicPagePath(slug string) string {
	return PublicPagePathPrefix + url.PathEscape(slug)
}

type ActionKind string

const (
	ActionNone     ActionKind = "none"
	ActionForm     ActionKind = "form"
	ActionExternal ActionKind = "external"
)

// Action bir butona tıklanınca yapılacak iş.
type Action struct {
	Kind ActionKind `json:"kind"`
	Href string     `json:"href,omitempty"`
}

// FormLocator form ID'sinden public anahtarı bulur.
type FormLocator interface {
	PublicURLForForm(ctx context.Context, formID uint) (string, error)
}

// Resolve hedefi çözer: form > url > işlemsiz. Form hedefleri daima public
// form rotasına gider, yazarlık rotasına asla.
func Resolve(ctx context.Context, t models.ButtonTarget, loc FormLocator) (Action, error) {
	if formID, ok := t.FormID(); ok {
		if loc == nil {
			return Action{Kind: ActionNone}, errors.New("form çözücü tanımlı değil")
		}
		key, err := loc.PublicURLForForm(ctx, formID)
		if err != nil {
			return Action{Kind: ActionNone}, fmt.Errorf("form %d çözülemedi: %w", formID, err)
		}
		return Action{Kind: ActionForm, Href: PublicFormPath(key)}, nil
	}
	if u, ok := t.URL(); ok {
		return Action{Kind: ActionExternal, Href: u}, nil
	}
	return Action{Kind: ActionNone}, nil
}

type PublicButton struct {
	ID     string              `json:"id"`
	Label  string              `json:"label"`
	Style  *models.ButtonStyle `json:"style,omitempty"`
	Action Action              `json:"action"`
}

// Public sayfanın salt okunur görünümü.
type Public struct {
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content,omitempty"`
	Buttons     []PublicButton `json:"buttons"`
}

// BuildPublic tüm butonları çözer. Çözülemeyen butonlar işlemsiz kalır; hatalar
// birleştirilip döndürülür ama görünüm yine de eksiksizdir.
func BuildPublic(ctx context.Context, d Definition, loc FormLocator) (Public, error) {
	p := Public{
		Title:       d.Title,
		Slug:        d.Slug,
		Description: d.Description,
		Content:     d.Content,
		Buttons:     make([]PublicButton, 0, len(d.Buttons)),
	}
	var errs []error
	for _, b := range d.Buttons {
		action, err := Resolve(ctx, b.Target, loc)
		if err != nil {
			errs = append(errs, err)
		}
		b = b.Clone()
		p.Buttons = append(p.Buttons, PublicButton{ID: b.ID, Label: b.Label, Style: b.Style, Action: action})
	}
	return p, errors.Join(errs...)
}
