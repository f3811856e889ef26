package services

import (
	"errors"
	"testing"

	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formdef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPrepareFieldsNormalizes(t *testing.T) {
	fields, err := prepareFields([]models.FormField{
		{ID: "a", Type: models.FieldText, Label: "Nome", Options: []string{"x"}},
		{ID: "b", Type: models.FieldSelect, Label: "Depto", Options: []string{"TI", " ", "RH"}},
		{ID: "c", Type: models.FieldDate, Label: "Data", Placeholder: "dd/mm"},
		{Type: models.FieldFile, Label: "Anexo", Validation: &models.FieldValidation{MaxSize: ptr(2.0), Accept: ".pdf"}},
	})
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Nil(t, fields[0].Options)
	assert.Equal(t, []string{"TI", "RH"}, fields[1].Options)
	assert.Empty(t, fields[2].Placeholder)
	assert.NotEmpty(t, fields[3].ID, "missing id is generated")
	assert.Equal(t, ".pdf", fields[3].Validation.Accept)
}

func TestPrepareFieldsRejects(t *testing.T) {
	_, err := prepareFields([]models.FormField{{ID: "a", Type: "slider"}})
	assert.Error(t, err)

	_, err = prepareFields([]models.FormField{
		{ID: "a", Type: models.FieldText},
		{ID: "a", Type: models.FieldEmail},
	})
	assert.Error(t, err)
}

func TestFormToDefinition(t *testing.T) {
	f := &models.Form{
		Link: models.Link{Key: "abc123"},
		Detail: models.FormDetail{
			Name:          "Solicitação de Acesso",
			Fields:        []models.FormField{{ID: "n", Type: models.FieldText, Label: "Nome", Required: true}},
			LinkedGroupID: ptr(uint(7)),
		},
	}
	f.ID = 3

	d := formToDefinition(f)
	assert.EqualValues(t, 3, d.ID)
	assert.Equal(t, "abc123", d.PublicURL)
	assert.True(t, d.ApprovalRequired())
	gid, ok := d.Linkage.GroupID()
	assert.True(t, ok)
	assert.EqualValues(t, 7, gid)

	d.Fields[0].Label = "changed"
	assert.Equal(t, "Nome", f.Detail.Fields[0].Label)
}

func TestApplyFormDefinitionWritesExclusiveLinkage(t *testing.T) {
	detail := models.FormDetail{LinkedUserID: ptr(uint(2))}
	d := formdef.Definition{Name: "  X  ", Linkage: models.LinkGroup(9)}
	applyFormDefinition(&detail, d, nil)

	assert.Equal(t, "X", detail.Name)
	assert.Nil(t, detail.LinkedUserID)
	require.NotNil(t, detail.LinkedGroupID)
	assert.EqualValues(t, 9, *detail.LinkedGroupID)
}

func TestPrepareButtons(t *testing.T) {
	buttons, err := prepareButtons([]models.PageButton{
		{Label: "Abrir chamado", Target: models.FormTarget(4), Style: &models.ButtonStyle{Size: "huge"}},
		{ID: "b", Label: "Site", Target: models.URLTarget("https://exemplo.com")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, buttons[0].ID)
	assert.Equal(t, models.ButtonMedium, buttons[0].Style.Size)
	u, ok := buttons[1].Target.URL()
	assert.True(t, ok)
	assert.Equal(t, "https://exemplo.com", u)

	_, err = prepareButtons([]models.PageButton{{ID: "x"}, {ID: "x"}})
	assert.Error(t, err)
}

func TestServiceErrorsMatchBuilderNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrFormNotFound, builder.ErrNotFound))
	assert.True(t, errors.Is(ErrPageNotFound, builder.ErrNotFound))
	assert.False(t, errors.Is(ErrFormUpdateFailed, builder.ErrNotFound))

	var um builder.UserMessenger
	require.ErrorAs(t, error(ErrPageSlugTaken), &um)
	assert.Equal(t, "Este slug já está em uso", um.UserMessage())
}
