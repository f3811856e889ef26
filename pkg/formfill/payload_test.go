package formfill_test

import (
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/formfill/formfilltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultipartRoundTrip(t *testing.T) {
	form := formdef.Public{
		PublicURL: "abc123",
		Name:      "Suporte",
		Fields: []models.FormField{
			{ID: "name", Type: models.FieldText, Label: "Nome", Required: true},
			{ID: "agree", Type: models.FieldCheckbox, Label: "Concordo"},
			{ID: "doc", Type: models.FieldFile, Label: "Contrato"},
		},
	}
	f := formfill.New(form)
	require.NoError(t, f.SetText("name", "Ana"))
	require.NoError(t, f.SetChecked("agree", true))
	require.NoError(t, f.SelectFile("doc", &formfill.File{Name: "contrato.pdf", Size: 3, ContentType: "application/pdf", Data: []byte("pdf")}))

	body, ct, err := formfilltest.Multipart(f.Package())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "multipart/form-data"))

	_, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	mf, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)

	p, err := formfill.ReadMultipart(mf)
	require.NoError(t, err)
	server := formfill.FromPayload(formfill.New(form), p)
	assert.Empty(t, server.Validate())

	v, _ := server.Value("agree")
	assert.True(t, v.Checked)
	v, _ = server.Value("doc")
	require.NotNil(t, v.File)
	assert.Equal(t, "contrato.pdf", v.File.Name)
	assert.EqualValues(t, 3, v.File.Size)
	assert.Equal(t, "application/pdf", v.File.ContentType)
}
