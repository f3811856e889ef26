package fieldtypes

import (
	"testing"

	"helpdesk.link/models"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	for _, ft := range models.FieldTypes {
		d := Describe(ft)
		isChoice := ft == models.FieldSelect || ft == models.FieldRadio
		assert.Equal(t, isChoice, d.SupportsOptions, ft)
		assert.Equal(t, isChoice, len(d.DefaultOptions) == 2, ft)
		assert.Equal(t, ft == models.FieldFile || ft == models.FieldImage, d.SupportsFileValidation, ft)
	}

	assert.True(t, Describe(models.FieldText).SupportsPlaceholder)
	assert.False(t, Describe(models.FieldCheckbox).SupportsPlaceholder)
	assert.False(t, Describe(models.FieldSelect).SupportsPlaceholder)
}

func TestDescribeDefaultOptionsNotShared(t *testing.T) {
	d := Describe(models.FieldSelect)
	d.DefaultOptions[0] = "changed"
	assert.Equal(t, "Opção 1", Describe(models.FieldSelect).DefaultOptions[0])
}

func TestDescribeUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Describe(models.FieldType("color")) })
}
