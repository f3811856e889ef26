// Package formdef düzenlenmekte olan form tanımını ve onu değiştiren saf
// fonksiyonları içerir. Fonksiyonlar girdiyi değiştirmez, yeni değer döndürür;
// seçili alan gibi arayüz durumu burada tutulmaz (bkz. pkg/builder).
package formdef

import (
	"errors"
	"strings"

	"helpdesk.link/models"

	"github.com/google/uuid"
)

// DefaultFieldLabel yeni eklenen alanın etiketi.
const DefaultFieldLabel = "Novo Campo"

var (
	ErrNameRequired = errors.New("o nome do formulário é obrigatório")
	ErrNoFields     = errors.New("o formulário precisa de pelo menos um campo")
)

// NewFieldID alan kimliği üretir. Testlerde değiştirilebilir.
var NewFieldID = uuid.NewString

// Definition yazarlık sırasındaki form.
type Definition struct {
	ID          uint               `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Fields      []models.FormField `json:"fields"`
	Linkage     models.Linkage     `json:"linkage"`
	PublicURL   string             `json:"publicUrl,omitempty"`
}

// Clone alan listesini paylaşmayan kopya.
func (d Definition) Clone() Definition {
	c := d
	c.Fields = make([]models.FormField, len(d.Fields))
	for i, f := range d.Fields {
		c.Fields[i] = f.Clone()
	}
	return c
}

// ApprovalRequired form bir kullanıcıya veya gruba bağlıysa true.
func (d Definition) ApprovalRequired() bool {
	return d.Linkage.RequiresApproval()
}

// IndexOf alanın sırasını döndürür, yoksa -1.
func (d Definition) IndexOf(fieldID string) int {
	for i, f := range d.Fields {
		if f.ID == fieldID {
			return i
		}
	}
	return -1
}

func (d Definition) Field(fieldID string) (models.FormField, bool) {
	if i := d.IndexOf(fieldID); i >= 0 {
		return d.Fields[i].Clone(), true
	}
	return models.FormField{}, false
}

// CanSave isim dolu ve en az bir alan varsa true.
func CanSave(d Definition) bool {
	return CheckSave(d) == nil
}

// CheckSave kaydı engelleyen ilk nedeni döndürür. Etiketsiz alanlar engellemez.
func CheckSave(d Definition) error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if len(d.Fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// Public public render için salt okunur görünüm.
type Public struct {
	PublicURL        string             `json:"publicUrl"`
	Name             string             `json:"name"`
	Description      string             `json:"description,omitempty"`
	Fields           []models.FormField `json:"fields"`
	ApprovalRequired bool               `json:"approvalRequired"`
}

func (d Definition) Public() Public {
	c := d.Clone()
	return Public{
		PublicURL:        c.PublicURL,
		Name:             c.Name,
		Description:      c.Description,
		Fields:           c.Fields,
		ApprovalRequired: c.ApprovalRequired(),
	}
}
