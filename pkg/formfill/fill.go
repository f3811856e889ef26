// Package formfill yayınlanmış bir formun public doldurma durumunu tutar:
// alan başına değer yuvası, istemcinin gördüğü doğrulama kuralları ve gönderim
// paketinin hazırlanması.
package formfill

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/fieldtypes"
	"helpdesk.link/pkg/formdef"
)

const (
	MsgRequired     = "Este campo é obrigatório"
	MsgInvalidEmail = "Informe um e-mail válido"
	msgFileTooLarge = "O arquivo excede o tamanho máximo de %g MB"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrUnknownField = errors.New("campo desconhecido")
	ErrWrongKind    = errors.New("valor incompatível com o tipo do campo")
)

const bytesPerMB = 1024 * 1024

// File kullanıcının seçtiği dosya; içerik opak blob olarak taşınır.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

func (f *File) SizeMB() float64 {
	return float64(f.Size) / bytesPerMB
}

// Value tek bir alanın değeri. Alan türüne göre yalnızca biri anlamlıdır.
type Value struct {
	Text    string
	Checked bool
	File    *File
}

// FieldError bir alana bağlı hata.
type FieldError struct {
	FieldID string
	Message string
}

func (e *FieldError) Error() string { return e.FieldID + ": " + e.Message }

// ValidationError gönderimi engelleyen tüm alan hataları, alan ID'sine göre.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("formulário inválido: %d campo(s) com erro (%s)", len(ids), strings.Join(ids, ", "))
}

// Fill bir formun doldurulma durumu.
type Fill struct {
	form      formdef.Public
	fields    map[string]models.FormField
	values    map[string]Value
	selection map[string]string // seçim anında reddedilen dosyaların hataları
}

// New her alan için başlangıç değerini hazırlar: checkbox false, dosya nil,
// diğerleri boş metin.
func New(form formdef.Public) *Fill {
	f := &Fill{
		form:      form,
		fields:    make(map[string]models.FormField, len(form.Fields)),
		values:    make(map[string]Value, len(form.Fields)),
		selection: map[string]string{},
	}
	for _, field := range form.Fields {
		f.fields[field.ID] = field
		f.values[field.ID] = Value{}
	}
	return f
}

func (f *Fill) Form() formdef.Public { return f.form }

func (f *Fill) Value(fieldID string) (Value, bool) {
	v, ok := f.values[fieldID]
	return v, ok
}

func (f *Fill) field(fieldID string) (models.FormField, error) {
	field, ok := f.fields[fieldID]
	if !ok {
		return models.FormField{}, fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	return field, nil
}

// SetText metin, seçim (select/radio), tarih ve sayı alanları için.
func (f *Fill) SetText(fieldID, text string) error {
	field, err := f.field(fieldID)
	if err != nil {
		return err
	}
	if field.Type == models.FieldCheckbox || fieldtypes.IsFile(field.Type) {
		return fmt.Errorf("%w: %s", ErrWrongKind, fieldID)
	}
	f.values[fieldID] = Value{Text: text}
	return nil
}

func (f *Fill) SetChecked(fieldID string, checked bool) error {
	field, err := f.field(fieldID)
	if err != nil {
		return err
	}
	if field.Type != models.FieldCheckbox {
		return fmt.Errorf("%w: %s", ErrWrongKind, fieldID)
	}
	f.values[fieldID] = Value{Checked: checked}
	return nil
}

// SelectFile dosya seçimini uygular. Limit aşılırsa seçim hemen reddedilir,
// alanın değeri nil kalır ve hata hem döndürülür hem de gönderime kadar saklanır.
func (f *Fill) SelectFile(fieldID string, file *File) error {
	field, err := f.field(fieldID)
	if err != nil {
		return err
	}
	if !fieldtypes.IsFile(field.Type) {
		return fmt.Errorf("%w: %s", ErrWrongKind, fieldID)
	}
	if file == nil {
		f.ClearFile(fieldID)
		return nil
	}
	if msg, tooLarge := sizeViolation(field, file); tooLarge {
		f.values[fieldID] = Value{}
		f.selection[fieldID] = msg
		return &FieldError{FieldID: fieldID, Message: msg}
	}
	delete(f.selection, fieldID)
	f.values[fieldID] = Value{File: file}
	return nil
}

func (f *Fill) ClearFile(fieldID string) {
	if _, ok := f.values[fieldID]; !ok {
		return
	}
	delete(f.selection, fieldID)
	f.values[fieldID] = Value{}
}

func sizeViolation(field models.FormField, file *File) (string, bool) {
	maxMB, ok := field.MaxSizeMB()
	if !ok || file.SizeMB() <= maxMB {
		return "", false
	}
	return fmt.Sprintf(msgFileTooLarge, maxMB), true
}

// Validate tüm alanları kontrol eder ve hataları toplar; ilk hatada durmaz.
func (f *Fill) Validate() map[string]string {
	errs := map[string]string{}
	for _, field := range f.form.Fields {
		if msg, ok := f.selection[field.ID]; ok {
			errs[field.ID] = msg
			continue
		}
		if msg := validateField(field, f.values[field.ID]); msg != "" {
			errs[field.ID] = msg
		}
	}
	return errs
}

// Check Validate sonucunu error olarak döndürür.
func (f *Fill) Check() error {
	if errs := f.Validate(); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func validateField(field models.FormField, v Value) string {
	switch {
	case fieldtypes.IsFile(field.Type):
		if v.File == nil {
			if field.Required {
				return MsgRequired
			}
			return ""
		}
		if msg, tooLarge := sizeViolation(field, v.File); tooLarge {
			return msg
		}
	case field.Type == models.FieldCheckbox:
		if field.Required && !v.Checked {
			return MsgRequired
		}
	default:
		if field.Required && strings.TrimSpace(v.Text) == "" {
			return MsgRequired
		}
		if field.Type == models.FieldEmail && v.Text != "" && !emailPattern.MatchString(v.Text) {
			return MsgInvalidEmail
		}
	}
	return ""
}
