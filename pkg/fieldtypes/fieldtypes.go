// Package fieldtypes alan türlerinin düzenleme, çizim ve doğrulama kurallarını tanımlar.
package fieldtypes

import (
	"fmt"

	"helpdesk.link/models"
)

// Descriptor bir alan türünün yetenekleri.
type Descriptor struct {
	SupportsOptions        bool
	SupportsPlaceholder    bool
	SupportsFileValidation bool
	DefaultOptions         []string
}

var defaultChoiceOptions = []string{"Opção 1", "Opção 2"}

var registry = map[models.FieldType]Descriptor{
	models.FieldText:     {SupportsPlaceholder: true},
	models.FieldEmail:    {SupportsPlaceholder: true},
	models.FieldNumber:   {SupportsPlaceholder: true},
	models.FieldTextarea: {SupportsPlaceholder: true},
	models.FieldSelect:   {SupportsOptions: true, DefaultOptions: defaultChoiceOptions},
	models.FieldRadio:    {SupportsOptions: true, DefaultOptions: defaultChoiceOptions},
	models.FieldCheckbox: {},
	models.FieldDate:     {},
	models.FieldFile:     {SupportsFileValidation: true},
	models.FieldImage:    {SupportsFileValidation: true},
}

// Describe türün tanımını döndürür. Bilinmeyen tür programlama hatasıdır ve panic üretir.
func Describe(t models.FieldType) Descriptor {
	d, ok := registry[t]
	if !ok {
		panic(fmt.Sprintf("fieldtypes: bilinmeyen alan türü %q", t))
	}
	// DefaultOptions paylaşılan slice'ı dışarı sızdırmasın
	if d.DefaultOptions != nil {
		d.DefaultOptions = append([]string(nil), d.DefaultOptions...)
	}
	return d
}

// IsFile dosya yüklemesi bekleyen türler.
func IsFile(t models.FieldType) bool {
	return Describe(t).SupportsFileValidation
}
