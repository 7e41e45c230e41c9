// Package netx holds small HTTP helpers shared by the client.
package netx

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FilePart is one file of a multipart/form-data body.
type FilePart struct {
	Name        string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// MultipartBody encodes parts under field. An empty ContentType leaves the
// part without a Content-Type header. The body is returned fully buffered
// so a retrying transport can resend it.
func MultipartBody(field string, parts ...FilePart) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(p.Name)))
		if p.ContentType != "" {
			h.Set("Content-Type", p.ContentType)
		}

		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.Data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
