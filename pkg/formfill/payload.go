package formfill

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"helpdesk.link/models"
	"helpdesk.link/pkg/fieldtypes"
)

// DataPartName metin değerlerinin JSON olarak taşındığı multipart parçası.
const DataPartName = "data"

// FilePart alan ID'siyle anahtarlanmış dosya parçası.
type FilePart struct {
	FieldID string
	File    *File
}

// Payload gönderim paketi. Dosya alanlarının Values karşılığı seçilen dosyanın
// adıdır; içerik Files'ta ayrı parça olarak taşınır.
type Payload struct {
	Values map[string]any
	Files  []FilePart
}

// Package değerleri gönderim paketine çevirir. Doğrulama yapmaz.
func (f *Fill) Package() *Payload {
	p := &Payload{Values: make(map[string]any, len(f.form.Fields))}
	for _, field := range f.form.Fields {
		v := f.values[field.ID]
		switch {
		case fieldtypes.IsFile(field.Type):
			if v.File == nil {
				p.Values[field.ID] = ""
				continue
			}
			p.Values[field.ID] = v.File.Name
			p.Files = append(p.Files, FilePart{FieldID: field.ID, File: v.File})
		case field.Type == models.FieldCheckbox:
			p.Values[field.ID] = v.Checked
		default:
			p.Values[field.ID] = v.Text
		}
	}
	return p
}

// ErrMissingData API gönderiminde data parçası yoksa döner.
var ErrMissingData = errors.New("parte 'data' ausente")

// ReadMultipart API gönderimini çözer: data parçası JSON, her dosya alan ID'siyle.
func ReadMultipart(form *multipart.Form) (*Payload, error) {
	raw, ok := form.Value[DataPartName]
	if !ok || len(raw) == 0 {
		return nil, ErrMissingData
	}
	p := &Payload{Values: map[string]any{}}
	if err := json.Unmarshal([]byte(raw[0]), &p.Values); err != nil {
		return nil, fmt.Errorf("parte 'data' inválida: %w", err)
	}
	files, err := readFiles(form)
	if err != nil {
		return nil, err
	}
	p.Files = files
	return p, nil
}

// ReadBrowserForm HTML formundan gelen gönderimi çözer; alan adları alan ID'leridir.
func ReadBrowserForm(form *multipart.Form) (*Payload, error) {
	p := &Payload{Values: map[string]any{}}
	for k, v := range form.Value {
		if len(v) > 0 {
			p.Values[k] = v[0]
		}
	}
	files, err := readFiles(form)
	if err != nil {
		return nil, err
	}
	p.Files = files
	return p, nil
}

func readFiles(form *multipart.Form) ([]FilePart, error) {
	var out []FilePart
	for fieldID, headers := range form.File {
		for _, fh := range headers {
			if fh.Filename == "" {
				continue
			}
			file, err := openFile(fh)
			if err != nil {
				return nil, fmt.Errorf("arquivo %q: %w", fieldID, err)
			}
			out = append(out, FilePart{FieldID: fieldID, File: file})
			break
		}
	}
	return out, nil
}

func openFile(fh *multipart.FileHeader) (*File, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:        fh.Filename,
		Size:        int64(len(data)),
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// FromPayload paketi forma uygular. Dosya seçimleri SelectFile kurallarıyla
// işlenir; limit aşımı Validate sonucunda görünür. Bilinmeyen anahtarlar atlanır.
func FromPayload(form *Fill, p *Payload) *Fill {
	files := make(map[string]*File, len(p.Files))
	for _, fp := range p.Files {
		files[fp.FieldID] = fp.File
	}
	for _, field := range form.form.Fields {
		switch {
		case fieldtypes.IsFile(field.Type):
			if file, ok := files[field.ID]; ok {
				_ = form.SelectFile(field.ID, file)
			}
		case field.Type == models.FieldCheckbox:
			_ = form.SetChecked(field.ID, truthy(p.Values[field.ID]))
		default:
			_ = form.SetText(field.ID, textOf(p.Values[field.ID]))
		}
	}
	return form
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b || strings.EqualFold(t, "on")
	}
	return false
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}
