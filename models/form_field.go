package models

// FieldType form alanının türü. Geçerli değerler sabit bir kümedir.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
	FieldImage    FieldType = "image"
)

// FieldTypes tanımlı türler, builder'daki sıralamayla.
var FieldTypes = []FieldType{
	FieldText, FieldEmail, FieldNumber, FieldTextarea, FieldSelect,
	FieldCheckbox, FieldRadio, FieldDate, FieldFile, FieldImage,
}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// FieldValidation alan türüne göre anlamlı olan kısıtlar. MaxSize MB cinsindendir.
type FieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Accept  string   `json:"accept,omitempty"`
	MaxSize *float64 `json:"maxSize,omitempty"`
}

func (v *FieldValidation) IsZero() bool {
	return v == nil || (v.Min == nil && v.Max == nil && v.Pattern == "" && v.Accept == "" && v.MaxSize == nil)
}

func (v *FieldValidation) Clone() *FieldValidation {
	if v == nil {
		return nil
	}
	c := &FieldValidation{Pattern: v.Pattern, Accept: v.Accept}
	c.Min = cloneFloat(v.Min)
	c.Max = cloneFloat(v.Max)
	c.MaxSize = cloneFloat(v.MaxSize)
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// FormField formdaki tek bir girdi tanımı.
type FormField struct {
	ID          string           `json:"id"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label"`
	Placeholder string           `json:"placeholder,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// Clone slice ve pointer alanları paylaşmayan bir kopya döndürür.
func (f FormField) Clone() FormField {
	c := f
	if f.Options != nil {
		c.Options = append([]string(nil), f.Options...)
	}
	c.Validation = f.Validation.Clone()
	return c
}

// MaxSizeMB dosya alanı için limit; tanımlı değilse ok=false.
func (f FormField) MaxSizeMB() (float64, bool) {
	if f.Validation == nil || f.Validation.MaxSize == nil {
		return 0, false
	}
	return *f.Validation.MaxSize, true
}
