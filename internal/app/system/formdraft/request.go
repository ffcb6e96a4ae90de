package formdraft

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MaxUploadMemory bounds multipart parsing held in memory.
const MaxUploadMemory = 32 << 20

var rowKey = regexp.MustCompile(`^([A-Za-z0-9_]+)\[(\d+)\]\[([A-Za-z0-9_]+)\]$`)

// FromRequest reads a Draft for schema from a submitted form.
//
// Inputs per kind:
//   - text and dates: <field>
//   - bool: <field> (a hidden "0" precedes the checkbox, the last value wins)
//   - file: <field> upload, <field>_url existing reference, <field>_clear
//   - collection: <field>[i][column] rows, <field>[i][id] for persisted rows
func FromRequest(r *http.Request, schema Schema) (Draft, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(MaxUploadMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	var files map[string][]*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File
	}

	d := Draft{}
	for _, f := range schema.Fields {
		switch f.Kind {
		case Bool:
			vals, ok := r.PostForm[f.Name]
			if !ok || len(vals) == 0 {
				continue
			}
			d[f.Name] = BoolValue(truthy(vals[len(vals)-1]))

		case File:
			d[f.Name] = fileValue(r, files, f.Name)

		case Collection:
			d[f.Name] = ItemsValue(rows(r, files, f))

		default:
			if _, ok := r.PostForm[f.Name]; ok {
				s := r.PostFormValue(f.Name)
				if f.Kind != Password && f.Kind != LongText {
					s = strings.TrimSpace(s)
				}
				d[f.Name] = Value{Text: s, Set: true}
			}
		}
	}
	return d, nil
}

func fileValue(r *http.Request, files map[string][]*multipart.FileHeader, name string) Value {
	if hs := files[name]; len(hs) > 0 && hs[0].Size > 0 {
		h := hs[0]
		return Value{Set: true, Files: []FileRef{{Name: h.Filename, Upload: h}}}
	}
	if truthy(r.PostFormValue(name + "_clear")) {
		return Value{Set: true}
	}
	if u := strings.TrimSpace(r.PostFormValue(name + "_url")); u != "" {
		return FileValue(u)
	}
	return Value{}
}

func rows(r *http.Request, files map[string][]*multipart.FileHeader, f Field) []Item {
	byIndex := map[int]*Item{}
	get := func(i int) *Item {
		it, ok := byIndex[i]
		if !ok {
			it = &Item{Values: map[string]string{}}
			byIndex[i] = it
		}
		return it
	}

	for key, vals := range r.PostForm {
		m := rowKey.FindStringSubmatch(key)
		if m == nil || m[1] != f.Name || len(vals) == 0 {
			continue
		}
		i, _ := strconv.Atoi(m[2])
		it := get(i)
		v := strings.TrimSpace(vals[len(vals)-1])
		switch {
		case m[3] == "id":
			it.ID = v
		case strings.HasSuffix(m[3], "_url"):
			if v != "" && it.File == nil {
				ref := FileRef{URL: v, Name: baseName(v)}
				it.File = &ref
			}
		default:
			it.Values[m[3]] = v
		}
	}
	for key, hs := range files {
		m := rowKey.FindStringSubmatch(key)
		if m == nil || m[1] != f.Name || len(hs) == 0 || hs[0].Size == 0 {
			continue
		}
		i, _ := strconv.Atoi(m[2])
		ref := FileRef{Name: hs[0].Filename, Upload: hs[0]}
		get(i).File = &ref
	}

	idx := make([]int, 0, len(byIndex))
	for i := range byIndex {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]Item, 0, len(idx))
	for _, i := range idx {
		it := byIndex[i]
		if it.ID == "" && it.File == nil && blank(it.Values) {
			continue
		}
		out = append(out, *it)
	}
	return out
}

func blank(m map[string]string) bool {
	for _, v := range m {
		if v != "" {
			return false
		}
	}
	return true
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Validate checks required fields and date formats. It returns field name
// to message; an empty map means the draft is valid. Fields are reported
// in schema order through Invalid.
func Validate(schema Schema, d Draft) map[string]string {
	errs := map[string]string{}
	for _, f := range schema.Fields {
		v := d[f.Name]
		switch f.Kind {
		case Bool:
			// unchecked is a valid answer
		case File:
			if f.Required && len(v.Files) == 0 {
				errs[f.Name] = f.Label + " is required."
			}
		case Collection:
			if f.Required && len(v.Items) == 0 {
				errs[f.Name] = "Add at least one " + strings.ToLower(f.Label) + "."
			}
			for _, it := range v.Items {
				for _, col := range f.Columns {
					if col.Required && col.Kind != File && strings.TrimSpace(it.Values[col.Name]) == "" {
						errs[f.Name] = f.Label + ": " + col.Label + " is required on every row."
					}
				}
			}
		case Date, ExpiryDate:
			if strings.TrimSpace(v.Text) == "" {
				if f.Required && f.Kind == Date {
					errs[f.Name] = f.Label + " is required."
				}
				continue
			}
			if _, ok := parseDate(strings.TrimSpace(v.Text), dateInputs); !ok {
				errs[f.Name] = f.Label + " must be a valid date."
			}
		case DateTime:
			if strings.TrimSpace(v.Text) == "" {
				if f.Required {
					errs[f.Name] = f.Label + " is required."
				}
				continue
			}
			if _, ok := parseDate(strings.TrimSpace(v.Text), dateTimeInputs); !ok {
				errs[f.Name] = f.Label + " must be a valid date and time."
			}
		default:
			if f.Required && strings.TrimSpace(v.Text) == "" {
				errs[f.Name] = f.Label + " is required."
			}
		}
	}
	return errs
}

// Invalid returns the names of invalid fields in schema order.
func Invalid(schema Schema, errs map[string]string) []string {
	var out []string
	for _, f := range schema.Fields {
		if _, ok := errs[f.Name]; ok {
			out = append(out, f.Name)
		}
	}
	return out
}
