// Package pagedef bilgilendirme sayfası tanımı, slug üretimi ve buton hedef
// çözümlemesi.
package pagedef

import (
	"errors"
	"strings"

	"helpdesk.link/models"

	"github.com/google/uuid"
)

const DefaultButtonLabel = "Novo Botão"

var (
	ErrTitleRequired = errors.New("o título da página é obrigatório")
	ErrSlugRequired  = errors.New("o slug da página é obrigatório")
)

var NewButtonID = uuid.NewString

type Definition struct {
	ID          uint                `json:"id,omitempty"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description,omitempty"`
	Content     string              `json:"content,omitempty"`
	Buttons     []models.PageButton `json:"buttons"`
}

func (d Definition) Clone() Definition {
	c := d
	c.Buttons = make([]models.PageButton, len(d.Buttons))
	for i, b := range d.Buttons {
		c.Buttons[i] = b.Clone()
	}
	return c
}

func (d Definition) IndexOf(buttonID string) int {
	for i, b := range d.Buttons {
		if b.ID == buttonID {
			return i
		}
	}
	return -1
}

func (d Definition) Button(buttonID string) (models.PageButton, bool) {
	if i := d.IndexOf(buttonID); i >= 0 {
		return d.Buttons[i].Clone(), true
	}
	return models.PageButton{}, false
}

// SetTitle başlığı değiştirir. Slug boşsa başlıktan türetilir; operatör bir
// slug girdiyse ona dokunulmaz.
func SetTitle(d Definition, title string) Definition {
	out := d.Clone()
	out.Title = title
	if out.Slug == "" {
		out.Slug = GenerateSlug(title)
	}
	return out
}

// SetSlug operatörün girdiği slug'ı URL güvenli hale getirip yazar.
func SetSlug(d Definition, slug string) Definition {
	out := d.Clone()
	out.Slug = GenerateSlug(slug)
	return out
}

func CanSave(d Definition) bool {
	return CheckSave(d) == nil
}

func CheckSave(d Definition) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if d.Slug == "" {
		return ErrSlugRequired
	}
	return nil
}

// ButtonPatch UpdateButton ile uygulanacak değişiklikler.
type ButtonPatch struct {
	Label  *string
	Target *models.ButtonTarget
	Style  *models.ButtonStyle
}

func AddButton(d Definition) (Definition, models.PageButton) {
	out := d.Clone()
	b := models.PageButton{
		ID:     NewButtonID(),
		Label:  DefaultButtonLabel,
		Target: models.NoTarget(),
		Style:  &models.ButtonStyle{Size: models.ButtonMedium},
	}
	out.Buttons = append(out.Buttons, b)
	return out, b.Clone()
}

// UpdateButton buton yoksa tanımı aynen döndürür.
func UpdateButton(d Definition, buttonID string, patch ButtonPatch) Definition {
	i := d.IndexOf(buttonID)
	if i < 0 {
		return d
	}
	out := d.Clone()
	b := out.Buttons[i]
	if patch.Label != nil {
		b.Label = *patch.Label
	}
	if patch.Target != nil {
		b.Target = *patch.Target
	}
	if patch.Style != nil {
		s := *patch.Style
		if !s.Size.Valid() {
			s.Size = models.ButtonMedium
		}
		b.Style = &s
	}
	out.Buttons[i] = b
	return out
}

func RemoveButton(d Definition, buttonID string) Definition {
	i := d.IndexOf(buttonID)
	if i < 0 {
		return d
	}
	out := d.Clone()
	out.Buttons = append(out.Buttons[:i], out.Buttons[i+1:]...)
	return out
}
