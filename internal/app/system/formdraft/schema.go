// Package formdraft turns an Add/Edit form into the backend's multipart
// payload.
//
// A Schema lists the form's fields and their kinds. A Draft holds what the
// admin entered. Serialize applies the per-kind encoding rules and splits
// out the parts that travel in separate requests: a pending file upload is
// sent after the primary mutation, addressed by the id it returns, and
// collection fields are handed to diff-sync.
package formdraft

import (
	"mime/multipart"
	"strings"
)

// Kind is the encoding class of a field.
type Kind int

const (
	Text       Kind = iota // copied verbatim
	Date                   // YYYY-MM-DD
	DateTime               // YYYY-MM-DD HH:mm:ss
	ExpiryDate             // Date that falls back to today when empty
	Bool                   // "1" / "0"
	File                   // single image reference
	Collection             // repeated rows synced item by item
	LongText               // Text rendered as a textarea
	Select                 // Text chosen from a lookup table
	Password               // Text never echoed back
)

// String names the kind for templates.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Date, ExpiryDate:
		return "date"
	case DateTime:
		return "datetime"
	case Bool:
		return "bool"
	case File:
		return "file"
	case Collection:
		return "collection"
	case LongText:
		return "longtext"
	case Select:
		return "select"
	case Password:
		return "password"
	}
	return "text"
}

// Field is one form input.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Tab      string

	// Lookup names the settings table a Select draws from.
	Lookup string
	// Choices is a fixed option list for a Select.
	Choices []Choice

	// Columns describes the per-row inputs of a Collection.
	Columns []Field

	Help string
}

// Choice is one fixed select option.
type Choice struct {
	Value string
	Label string
}

// Schema is an ordered list of fields.
type Schema struct {
	Fields []Field
}

// Field looks a field up by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// OnTab returns the fields shown on tab ("" returns the untabbed ones).
func (s Schema) OnTab(tab string) []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Tab == tab {
			out = append(out, f)
		}
	}
	return out
}

// Collections returns the collection fields.
func (s Schema) Collections() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Kind == Collection {
			out = append(out, f)
		}
	}
	return out
}

// Without returns a copy of s without the named fields.
func (s Schema) Without(names ...string) Schema {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := Schema{}
	for _, f := range s.Fields {
		if !drop[f.Name] {
			out.Fields = append(out.Fields, f)
		}
	}
	return out
}

// FileRef is the state of a file field.
// Upload is set when the admin picked a new file in this submission.
type FileRef struct {
	URL    string
	Name   string
	Upload *multipart.FileHeader
}

// Pending reports whether the ref carries a new upload.
func (f FileRef) Pending() bool { return f.Upload != nil }

// Item is one collection row. ID is empty for rows not yet persisted.
type Item struct {
	ID     string
	Values map[string]string
	File   *FileRef
}

// Value is what the admin entered for one field.
//
// For files: no refs means cleared, one ref with Upload means a pending
// upload, one ref with only URL means unchanged.
type Value struct {
	Text  string
	Bool  bool
	Set   bool
	Files []FileRef
	Items []Item
}

// Draft maps field names to values.
type Draft map[string]Value

// Text returns the text of name.
func (d Draft) Text(name string) string { return d[name].Text }

// Checked returns the boolean of name.
func (d Draft) Checked(name string) bool { return d[name].Bool }

// FileURL returns the existing file URL of name, if any.
func (d Draft) FileURL(name string) string {
	v := d[name]
	if len(v.Files) == 1 {
		return v.Files[0].URL
	}
	return ""
}

// Items returns the rows of a collection.
func (d Draft) Items(name string) []Item { return d[name].Items }

// Merge returns a copy of d with every value of over applied on top.
func (d Draft) Merge(over Draft) Draft {
	out := make(Draft, len(d)+len(over))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// TextValue builds a text Value; blank strings are left unset.
func TextValue(s string) Value {
	return Value{Text: s, Set: strings.TrimSpace(s) != ""}
}

// BoolValue builds a defined boolean Value.
func BoolValue(b bool) Value { return Value{Bool: b, Set: true} }

// FileValue builds a Value for an existing file URL ("" means no file).
func FileValue(url string) Value {
	if url == "" {
		return Value{}
	}
	return Value{Files: []FileRef{{URL: url, Name: baseName(url)}}}
}

// ItemsValue builds a collection Value.
func ItemsValue(items []Item) Value { return Value{Items: items, Set: true} }

func baseName(u string) string {
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}
