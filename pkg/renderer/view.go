package renderer

import (
	"html/template"

	"helpdesk.link/models"
	"helpdesk.link/pkg/fieldtypes"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/pipeline"
)

// FieldView tek alanın çizim verisi.
type FieldView struct {
	ID          string
	Type        string
	InputType   string
	Label       string
	Placeholder string
	Required    bool
	Options     []string
	Accept      string
	Value       string
	Checked     bool
	FileName    string
	Error       string
}

func (f FieldView) IsTextarea() bool { return f.Type == string(models.FieldTextarea) }
func (f FieldView) IsSelect() bool   { return f.Type == string(models.FieldSelect) }
func (f FieldView) IsRadio() bool    { return f.Type == string(models.FieldRadio) }
func (f FieldView) IsCheckbox() bool { return f.Type == string(models.FieldCheckbox) }
func (f FieldView) IsFile() bool     { return f.InputType == "file" }

type FormView struct {
	PublicURL        string
	Name             string
	Description      string
	ApprovalRequired bool
	Fields           []FieldView
	Action           string
}

// NewFormView doldurma durumundan ve (varsa) hata haritasından görünüm üretir.
// Gönderilmiş değerler korunur; dosyalar tarayıcıda yeniden seçilmelidir.
func NewFormView(fill *formfill.Fill, errs map[string]string) FormView {
	form := fill.Form()
	v := FormView{
		PublicURL:        form.PublicURL,
		Name:             form.Name,
		Description:      form.Description,
		ApprovalRequired: form.ApprovalRequired,
		Action:           pagedef.PublicFormPath(form.PublicURL),
		Fields:           make([]FieldView, 0, len(form.Fields)),
	}
	for _, field := range form.Fields {
		fv := FieldView{
			ID:          field.ID,
			Type:        string(field.Type),
			InputType:   inputType(field.Type),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Required:    field.Required,
			Options:     field.Options,
			Error:       errs[field.ID],
		}
		if field.Validation != nil {
			fv.Accept = field.Validation.Accept
		}
		if field.Type == models.FieldImage && fv.Accept == "" {
			fv.Accept = "image/*"
		}
		if val, ok := fill.Value(field.ID); ok {
			fv.Value = val.Text
			fv.Checked = val.Checked
			if val.File != nil {
				fv.FileName = val.File.Name
			}
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

func inputType(t models.FieldType) string {
	switch {
	case fieldtypes.IsFile(t):
		return "file"
	case t == models.FieldEmail, t == models.FieldNumber, t == models.FieldDate, t == models.FieldCheckbox, t == models.FieldRadio:
		return string(t)
	}
	return "text"
}

type ButtonView struct {
	Label    string
	Href     string
	External bool
	Disabled bool
	// Renkler şablonda style özniteliğine ayrı ayrı yazılır.
	Background string
	Color      string
	Size       string
}

// PageView Content operatörün yazdığı ham HTML'dir ve kaçışsız basılır.
type PageView struct {
	Title       string
	Description string
	Content     template.HTML
	Buttons     []ButtonView
}

func NewPageView(p pagedef.Public) PageView {
	v := PageView{
		Title:       p.Title,
		Description: p.Description,
		Content:     template.HTML(p.Content),
		Buttons:     make([]ButtonView, 0, len(p.Buttons)),
	}
	for _, b := range p.Buttons {
		bv := ButtonView{
			Label:    b.Label,
			Href:     b.Action.Href,
			External: b.Action.Kind == pagedef.ActionExternal,
			Disabled: b.Action.Kind == pagedef.ActionNone,
			Size:     string(models.ButtonMedium),
		}
		if b.Style != nil {
			if b.Style.Size.Valid() {
				bv.Size = string(b.Style.Size)
			}
			bv.Background = b.Style.BackgroundColor
			bv.Color = b.Style.Color
		}
		v.Buttons = append(v.Buttons, bv)
	}
	return v
}

// ConfirmationView başarılı gönderim sonrası gösterilen bilgi.
type ConfirmationView struct {
	FormName         string
	TicketID         string
	ApprovalRequired bool
	BackHref         string
}

func NewConfirmationView(formName, publicURL string, c pipeline.Confirmation) ConfirmationView {
	return ConfirmationView{
		FormName:         formName,
		TicketID:         c.TicketID,
		ApprovalRequired: c.ApprovalRequired,
		BackHref:         pagedef.PublicFormPath(publicURL),
	}
}
