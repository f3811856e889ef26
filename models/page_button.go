package models

import (
	"encoding/json"
	"errors"
)

// ButtonSize sayfa butonu boyutu.
type ButtonSize string

const (
	ButtonSmall  ButtonSize = "small"
	ButtonMedium ButtonSize = "medium"
	ButtonLarge  ButtonSize = "large"
)

func (s ButtonSize) Valid() bool {
	return s == ButtonSmall || s == ButtonMedium || s == ButtonLarge
}

type ButtonStyle struct {
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	Color           string     `json:"color,omitempty"`
	Size            ButtonSize `json:"size"`
}

// ButtonTarget butonun hedefi: yok, yayınlanmış bir form veya harici URL.
// Aynı anda form ve URL taşıyan değer oluşturulamaz.
type ButtonTarget struct {
	formID uint
	url    string
}

func NoTarget() ButtonTarget { return ButtonTarget{} }

func FormTarget(formID uint) ButtonTarget {
	return ButtonTarget{formID: formID}
}

func URLTarget(url string) ButtonTarget {
	return ButtonTarget{url: url}
}

func (t ButtonTarget) FormID() (uint, bool) { return t.formID, t.formID != 0 }
func (t ButtonTarget) URL() (string, bool)  { return t.url, t.formID == 0 && t.url != "" }
func (t ButtonTarget) IsNone() bool         { return t.formID == 0 && t.url == "" }

// ErrButtonTargetConflict kayıtlı veride hem formId hem url varsa döner.
var ErrButtonTargetConflict = errors.New("buton hem formId hem url içeremez")

// PageButton sayfadaki aksiyon butonu.
type PageButton struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Target ButtonTarget `json:"-"`
	Style  *ButtonStyle `json:"style,omitempty"`
}

type pageButtonJSON struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	FormID *uint        `json:"formId,omitempty"`
	URL    string       `json:"url,omitempty"`
	Style  *ButtonStyle `json:"style,omitempty"`
}

func (b PageButton) MarshalJSON() ([]byte, error) {
	out := pageButtonJSON{ID: b.ID, Label: b.Label, Style: b.Style}
	if id, ok := b.Target.FormID(); ok {
		out.FormID = &id
	} else if u, ok := b.Target.URL(); ok {
		out.URL = u
	}
	return json.Marshal(out)
}

func (b *PageButton) UnmarshalJSON(data []byte) error {
	var raw pageButtonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	hasForm := raw.FormID != nil && *raw.FormID != 0
	if hasForm && raw.URL != "" {
		return ErrButtonTargetConflict
	}
	b.ID, b.Label, b.Style = raw.ID, raw.Label, raw.Style
	switch {
	case hasForm:
		b.Target = FormTarget(*raw.FormID)
	case raw.URL != "":
		b.Target = URLTarget(raw.URL)
	default:
		b.Target = NoTarget()
	}
	return nil
}

func (b PageButton) Clone() PageButton {
	c := b
	if b.Style != nil {
		s := *b.Style
		c.Style = &s
	}
	return c
}
