// Package formfilltest formfill paketlerini API istemcisi gibi multipart
// gövdeye yazar. Yalnızca testlerde kullanılır.
package formfilltest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"helpdesk.link/pkg/formfill"
)

// Multipart paketi /api/public gönderim gövdesine çevirir ve Content-Type döndürür.
// Değerler data parçasında JSON, her dosya alan ID'siyle ayrı parçadadır.
func Multipart(p *formfill.Payload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	data, err := json.Marshal(p.Values)
	if err != nil {
		return nil, "", err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q`, formfill.DataPartName))
	h.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	for _, fp := range p.Files {
		ct := fp.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		fh := make(textproto.MIMEHeader)
		fh.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fp.FieldID, fp.File.Name))
		fh.Set("Content-Type", ct)
		part, err := mw.CreatePart(fh)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(fp.File.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
