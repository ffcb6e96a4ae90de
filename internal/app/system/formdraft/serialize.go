package formdraft

import (
	"net/url"
	"strings"
	"time"
)

// Wire layouts the backend expects.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

var dateInputs = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/1/2",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

var dateTimeInputs = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04",
	time.RFC3339,
}

// Upload is a file sent after the primary mutation.
type Upload struct {
	Field string
	File  FileRef
}

// Payload is the serialized form.
type Payload struct {
	Fields      url.Values
	Uploads     []Upload
	Collections map[string][]Item
}

// Serialize encodes d according to schema.
//
//   - text: defined, non-empty values copied verbatim
//   - dates and datetimes: reformatted zero padded; empty ones omitted
//   - expiry dates: empty falls back to now
//   - booleans: "1" or "0"; false is sent whenever the value is defined
//   - files: never in Fields; exactly one pending upload becomes an Upload,
//     a cleared file sends <field>_removed=1
//   - collections: never in Fields; returned in Collections
func Serialize(schema Schema, d Draft, now time.Time) Payload {
	p := Payload{Fields: url.Values{}}
	for _, f := range schema.Fields {
		v, ok := d[f.Name]
		switch f.Kind {
		case Bool:
			if !ok || !v.Set {
				continue
			}
			if v.Bool {
				p.Fields.Set(f.Name, "1")
			} else {
				p.Fields.Set(f.Name, "0")
			}

		case Date:
			if s, ok := formatDate(v.Text, dateInputs, DateLayout); ok {
				p.Fields.Set(f.Name, s)
			}

		case ExpiryDate:
			if s, ok := formatDate(v.Text, dateInputs, DateLayout); ok {
				p.Fields.Set(f.Name, s)
			} else if strings.TrimSpace(v.Text) == "" {
				p.Fields.Set(f.Name, now.Format(DateLayout))
			}

		case DateTime:
			if s, ok := formatDate(v.Text, dateTimeInputs, DateTimeLayout); ok {
				p.Fields.Set(f.Name, s)
			}

		case File:
			switch {
			case len(v.Files) == 1 && v.Files[0].Pending():
				p.Uploads = append(p.Uploads, Upload{Field: f.Name, File: v.Files[0]})
			case len(v.Files) == 0 && v.Set:
				p.Fields.Set(f.Name+"_removed", "1")
			}

		case Collection:
			if ok && v.Set {
				if p.Collections == nil {
					p.Collections = map[string][]Item{}
				}
				p.Collections[f.Name] = v.Items
			}

		default:
			if ok && v.Text != "" {
				p.Fields.Set(f.Name, v.Text)
			}
		}
	}
	return p
}

// formatDate parses s with the first matching input layout and formats it
// with out. Blank input reports false. Unparseable input is passed through
// verbatim so the backend can report it.
func formatDate(s string, inputs []string, out string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, ok := parseDate(s, inputs); ok {
		return t.Format(out), true
	}
	return s, true
}

func parseDate(s string, inputs []string) (time.Time, bool) {
	for _, layout := range inputs {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses a date as entered in a form or returned by the backend.
func ParseDate(s string) (time.Time, bool) {
	return parseDate(strings.TrimSpace(s), dateInputs)
}

// InputDate formats a backend date for an <input type="date">.
func InputDate(s string) string {
	if t, ok := parseDate(strings.TrimSpace(s), dateInputs); ok {
		return t.Format(DateLayout)
	}
	return s
}

// InputDateTime formats a backend datetime for an <input type="datetime-local">.
func InputDateTime(s string) string {
	if t, ok := parseDate(strings.TrimSpace(s), dateTimeInputs); ok {
		return t.Format("2006-01-02T15:04")
	}
	return s
}
