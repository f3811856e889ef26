package services

import (
	"fmt"
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/pagedef"
)

// formToDefinition kayıttan yazarlık tanımını üretir.
func formToDefinition(f *models.Form) formdef.Definition {
	fields := make([]models.FormField, len(f.Detail.Fields))
	for i, field := range f.Detail.Fields {
		fields[i] = field.Clone()
	}
	return formdef.Definition{
		ID:          f.ID,
		Name:        f.Detail.Name,
		Description: f.Detail.Description,
		Fields:      fields,
		Linkage:     f.Detail.Linkage(),
		PublicURL:   f.PublicURL(),
	}
}

// prepareFields gelen alanları kaydetmeye hazırlar: bilinmeyen tür reddedilir,
// eksik ID üretilir, tekrar eden ID reddedilir ve her alan türüne göre normalize edilir.
func prepareFields(fields []models.FormField) ([]models.FormField, error) {
	out := make([]models.FormField, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if !f.Type.Valid() {
			return nil, fmt.Errorf("campo %d: tipo %q inválido", i+1, f.Type)
		}
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			f.ID = formdef.NewFieldID()
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("campo %d: id %q duplicado", i+1, f.ID)
		}
		seen[f.ID] = true
		out = append(out, formdef.Normalize(f))
	}
	return out, nil
}

// applyFormDefinition düzenlenebilir alanları detaya yazar.
func applyFormDefinition(detail *models.FormDetail, d formdef.Definition, fields []models.FormField) {
	detail.Name = strings.TrimSpace(d.Name)
	detail.Description = d.Description
	detail.Fields = fields
	detail.SetLinkage(d.Linkage)
}

func pageToDefinition(p *models.Page) pagedef.Definition {
	buttons := make([]models.PageButton, len(p.Detail.Buttons))
	for i, b := range p.Detail.Buttons {
		buttons[i] = b.Clone()
	}
	return pagedef.Definition{
		ID:          p.ID,
		Title:       p.Detail.Title,
		Slug:        p.Slug,
		Description: p.Detail.Description,
		Content:     p.Detail.Content,
		Buttons:     buttons,
	}
}

// prepareButtons eksik ID'leri üretir ve geçersiz boyutu orta boyuta çeker.
func prepareButtons(buttons []models.PageButton) ([]models.PageButton, error) {
	out := make([]models.PageButton, 0, len(buttons))
	seen := make(map[string]bool, len(buttons))
	for i, b := range buttons {
		b = b.Clone()
		if b.ID == "" {
			b.ID = pagedef.NewButtonID()
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("botão %d: id %q duplicado", i+1, b.ID)
		}
		seen[b.ID] = true
		if b.Style != nil && !b.Style.Size.Valid() {
			b.Style.Size = models.ButtonMedium
		}
		out = append(out, b)
	}
	return out, nil
}

func applyPageDefinition(detail *models.PageDetail, d pagedef.Definition, buttons []models.PageButton) {
	detail.Title = strings.TrimSpace(d.Title)
	detail.Description = d.Description
	detail.Content = d.Content
	detail.Buttons = buttons
}
