package formdef

import (
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/fieldtypes"
)

// FieldPatch UpdateField ile birleştirilecek değişiklikler. nil alanlar dokunulmaz.
type FieldPatch struct {
	Type        *models.FieldType       `json:"type,omitempty"`
	Label       *string                 `json:"label,omitempty"`
	Placeholder *string                 `json:"placeholder,omitempty"`
	Required    *bool                   `json:"required,omitempty"`
	Options     *[]string               `json:"options,omitempty"`
	Validation  *models.FieldValidation `json:"validation,omitempty"`
}

// AddField sona varsayılan bir text alanı ekler.
func AddField(d Definition) (Definition, models.FormField) {
	out := d.Clone()
	f := models.FormField{
		ID:    NewFieldID(),
		Type:  models.FieldText,
		Label: DefaultFieldLabel,
	}
	out.Fields = append(out.Fields, f)
	return out, f.Clone()
}

// UpdateField patch'i alana uygular. Alan yoksa tanım aynen döner.
func UpdateField(d Definition, fieldID string, patch FieldPatch) Definition {
	i := d.IndexOf(fieldID)
	if i < 0 {
		return d
	}
	out := d
	if patch.Type != nil {
		out = SetType(out, fieldID, *patch.Type)
	}
	out = out.Clone()
	f := out.Fields[i]

	if patch.Label != nil {
		f.Label = *patch.Label
	}
	if patch.Placeholder != nil {
		f.Placeholder = *patch.Placeholder
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	if patch.Options != nil {
		f.Options = filterOptions(*patch.Options)
	}
	if patch.Validation != nil {
		f.Validation = patch.Validation.Clone()
	}

	out.Fields[i] = Normalize(f)
	return out
}

// RemoveField alanı çıkarır.
func RemoveField(d Definition, fieldID string) Definition {
	i := d.IndexOf(fieldID)
	if i < 0 {
		return d
	}
	out := d.Clone()
	out.Fields = append(out.Fields[:i], out.Fields[i+1:]...)
	return out
}

// SetType alanın türünü değiştirir. select/radio'ya geçişte seçenek yoksa iki
// varsayılan seçenek eklenir; bu türlerden çıkışta seçenekler tamamen silinir.
func SetType(d Definition, fieldID string, t models.FieldType) Definition {
	i := d.IndexOf(fieldID)
	if i < 0 {
		return d
	}
	desc := fieldtypes.Describe(t)
	out := d.Clone()
	f := out.Fields[i]
	f.Type = t
	if desc.SupportsOptions && len(f.Options) == 0 {
		f.Options = desc.DefaultOptions
	}
	out.Fields[i] = Normalize(f)
	return out
}

// SetLinkage bağlantıyı değiştirir; bir türü ayarlamak diğerini temizler.
func SetLinkage(d Definition, l models.Linkage) Definition {
	out := d.Clone()
	out.Linkage = l
	return out
}

// Normalize alanı türünün kurallarına göre düzeltir.
func Normalize(f models.FormField) models.FormField {
	desc := fieldtypes.Describe(f.Type)
	f = f.Clone()

	if desc.SupportsOptions {
		f.Options = filterOptions(f.Options)
	} else {
		f.Options = nil
	}
	if !desc.SupportsPlaceholder {
		f.Placeholder = ""
	}
	if f.Validation != nil && !desc.SupportsFileValidation {
		f.Validation.Accept = ""
		f.Validation.MaxSize = nil
	}
	if f.Validation.IsZero() {
		f.Validation = nil
	}
	return f
}

// filterOptions seçenekleri satırlara ayırır ve boşları atar. Çok satırlı
// girdi tampondan gelmiş gibi bölünür; kanonik liste her zaman tampona yazılıp
// geri okunduğunda aynı kalır.
func filterOptions(opts []string) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		for _, line := range strings.Split(o, "\n") {
			line = strings.TrimSuffix(line, "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			out = append(out, line)
		}
	}
	return out
}
