package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"sort"
)

// FilePart is a file attached to a multipart body.
type FilePart struct {
	Field    string
	Filename string
	Open     func() (io.ReadCloser, error)
}

// Form is a multipart/form-data body.
type Form struct {
	Fields url.Values
	Files  []FilePart
}

// NewForm returns a Form carrying fields.
func NewForm(fields url.Values) *Form {
	if fields == nil {
		fields = url.Values{}
	}
	return &Form{Fields: fields}
}

// Set replaces a field value.
func (f *Form) Set(key, value string) *Form {
	if f.Fields == nil {
		f.Fields = url.Values{}
	}
	f.Fields.Set(key, value)
	return f
}

// Attach adds a file part.
func (f *Form) Attach(p FilePart) *Form {
	f.Files = append(f.Files, p)
	return f
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range f.Fields[k] {
			if err := mw.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}

	for _, p := range f.Files {
		if err := writeFile(mw, p); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", p.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func writeFile(mw *multipart.Writer, p FilePart) error {
	rc, err := p.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	w, err := mw.CreateFormFile(p.Field, p.Filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, rc)
	return err
}
