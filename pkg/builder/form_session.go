package builder

import (
	"context"
	"fmt"
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/fieldtypes"
	"helpdesk.link/pkg/formdef"
)

// FormSession tek bir formun düzenleme oturumu.
type FormSession struct {
	saveGuard

	id       string
	def      formdef.Definition
	selected string
	options  formdef.OptionsBuffer
}

// FormSnapshot oturumun saklanabilir hali.
type FormSnapshot struct {
	ID          string             `json:"id"`
	Definition  formdef.Definition `json:"definition"`
	Selected    string             `json:"selected,omitempty"`
	OptionsText string             `json:"optionsText,omitempty"`
}

func NewFormSession() *FormSession {
	return &FormSession{id: NewSessionID(), def: formdef.Definition{Fields: []models.FormField{}}}
}

// OpenFormSession mevcut formu depodan yükler. Hata durumunda oturum oluşmaz.
func OpenFormSession(ctx context.Context, store FormStore, formID uint) (*FormSession, error) {
	d, err := store.GetForm(ctx, formID)
	if err != nil {
		return nil, loadFailure(err)
	}
	s := NewFormSession()
	s.def = d.Clone()
	return s, nil
}

func RestoreFormSession(snap FormSnapshot) *FormSession {
	s := &FormSession{id: snap.ID, def: snap.Definition.Clone(), selected: snap.Selected}
	if s.def.IndexOf(s.selected) < 0 {
		s.selected = ""
	}
	s.options.Set(snap.OptionsText)
	return s
}

func (s *FormSession) Snapshot() FormSnapshot {
	return FormSnapshot{
		ID:          s.id,
		Definition:  s.def.Clone(),
		Selected:    s.selected,
		OptionsText: s.options.Text(),
	}
}

func (s *FormSession) ID() string { return s.id }

func (s *FormSession) Definition() formdef.Definition { return s.def.Clone() }

// Preview kaydedilecek tanımın public izdüşümü; ayrı bir durumu yoktur.
func (s *FormSession) Preview() formdef.Public { return s.def.Public() }

func (s *FormSession) SelectedID() string { return s.selected }

func (s *FormSession) Selected() (models.FormField, bool) {
	if s.selected == "" {
		return models.FormField{}, false
	}
	return s.def.Field(s.selected)
}

// Select alanı seçer ve seçenek tamponunu alanın seçenekleriyle doldurur.
// Boş ID seçimi kaldırır.
func (s *FormSession) Select(fieldID string) error {
	if fieldID == "" {
		s.selected = ""
		s.options = formdef.OptionsBuffer{}
		return nil
	}
	f, ok := s.def.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, fieldID)
	}
	s.selected = fieldID
	s.options = formdef.BufferFrom(f.Options)
	return nil
}

func (s *FormSession) SetName(name string) { s.def.Name = name }

func (s *FormSession) SetDescription(desc string) { s.def.Description = desc }

func (s *FormSession) SetLinkage(l models.Linkage) { s.def = formdef.SetLinkage(s.def, l) }

// AddField yeni alan ekler ve onu seçer.
func (s *FormSession) AddField() models.FormField {
	d, f := formdef.AddField(s.def)
	s.def = d
	_ = s.Select(f.ID)
	return f
}

// UpdateField var olmayan alan için sessizce bir şey yapmaz.
func (s *FormSession) UpdateField(fieldID string, patch formdef.FieldPatch) {
	s.def = formdef.UpdateField(s.def, fieldID, patch)
	s.refreshBuffer(fieldID)
}

func (s *FormSession) SetFieldType(fieldID string, t models.FieldType) {
	s.def = formdef.SetType(s.def, fieldID, t)
	s.refreshBuffer(fieldID)
}

func (s *FormSession) RemoveField(fieldID string) {
	s.def = formdef.RemoveField(s.def, fieldID)
	if s.selected == fieldID {
		_ = s.Select("")
	}
}

// OptionsText seçili alanın ham seçenek metni.
func (s *FormSession) OptionsText() string { return s.options.Text() }

// EditOptions ham metni tampona yazar ve seçili alanın seçeneklerine işler.
// Tampon boş satırlarıyla birlikte korunur.
func (s *FormSession) EditOptions(text string) error {
	f, ok := s.Selected()
	if !ok {
		return ErrUnknownItem
	}
	if !fieldtypes.Describe(f.Type).SupportsOptions {
		return ErrNoOptions
	}
	s.options.Set(text)
	opts := s.options.Commit()
	s.def = formdef.UpdateField(s.def, f.ID, formdef.FieldPatch{Options: &opts})
	return nil
}

func (s *FormSession) refreshBuffer(fieldID string) {
	if s.selected != fieldID {
		return
	}
	if f, ok := s.def.Field(fieldID); ok {
		s.options = formdef.BufferFrom(f.Options)
	}
}

// HasChanges isim girilmişse veya en az bir alan varsa true.
func (s *FormSession) HasChanges() bool {
	return strings.TrimSpace(s.def.Name) != "" || len(s.def.Fields) > 0
}

// Cancel oturumu bırakmak için izin ister. Değişiklik varsa confirm sorulur.
func (s *FormSession) Cancel(confirm Confirm) bool {
	if !s.HasChanges() {
		return true
	}
	return confirm != nil && confirm()
}

// Save kaydedilebilirliği kontrol eder, ID varsa günceller yoksa oluşturur.
// Geçersiz tanımda depoya gidilmez.
func (s *FormSession) Save(ctx context.Context, store FormStore) (formdef.Definition, error) {
	if err := formdef.CheckSave(s.def); err != nil {
		return formdef.Definition{}, err
	}
	if !s.begin() {
		return formdef.Definition{}, ErrSaveInFlight
	}
	defer s.end()

	var (
		saved formdef.Definition
		err   error
	)
	if s.def.ID == 0 {
		saved, err = store.CreateForm(ctx, s.def.Clone())
	} else {
		saved, err = store.UpdateForm(ctx, s.def.Clone())
	}
	if err != nil {
		return formdef.Definition{}, saveFailure(err)
	}
	s.def = saved.Clone()
	return saved, nil
}
