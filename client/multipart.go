package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/raf-alpha/api-go/formstate"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// form accumulates a multipart body in memory.
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WriteField(name, value)
}

// file writes a part carrying the declared content type, which the server
// checks before sniffing the bytes.
func (f *form) file(field string, file formstate.File) {
	if f.err != nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = fmt.Errorf("create part %s: %w", field, err)
		return
	}
	if _, err := part.Write(file.Data); err != nil {
		f.err = fmt.Errorf("write part %s: %w", field, err)
	}
}

// finish closes the writer and returns the body with its content type.
func (f *form) finish() (*bytes.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return bytes.NewReader(f.buf.Bytes()), f.w.FormDataContentType(), nil
}
