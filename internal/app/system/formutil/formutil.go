// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with:
// - The admin's previously entered values (echoed back)
// - An error message and per-field messages
// - The tab holding the first invalid field made active
//
// Example usage:
//
//	type clubFormData struct {
//		formutil.Base
//		Draft formdraft.Draft
//	}
//
//	data := clubFormData{Draft: draft}
//	formutil.SetBase(&data.Base, w, r, "Edit Club", "/clubs")
//	data.SetFieldErrors(errs)
//	templates.Render(w, r, "crud_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/clubdesk/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error       template.HTML
	FieldErrors map[string]string
}

// SetBase populates the common Base fields from the request.
func SetBase(b *Base, w http.ResponseWriter, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(w, r, title, backDefault)
}

// SetError sets the error message on a Base struct.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetFieldErrors records per-field messages and a summary line.
func (b *Base) SetFieldErrors(errs map[string]string) {
	b.FieldErrors = errs
	if len(errs) > 0 && b.Error == "" {
		b.SetError("Please correct the highlighted fields.")
	}
}

// FieldError returns the message for one field ("" when valid).
func (b Base) FieldError(name string) string {
	return b.FieldErrors[name]
}
