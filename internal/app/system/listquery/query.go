package listquery

import (
	"maps"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query is the list state sent to the backend.
type Query struct {
	Keyword string
	Page    int
	Size    int
	Filters map[string]string
}

// Clone returns a deep copy.
func (q Query) Clone() Query {
	out := q
	if q.Filters != nil {
		out.Filters = maps.Clone(q.Filters)
	}
	return out
}

// Equal compares two queries, treating nil and empty filter maps alike.
func (q Query) Equal(o Query) bool {
	if q.Keyword != o.Keyword || q.Page != o.Page || q.Size != o.Size {
		return false
	}
	if len(q.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range q.Filters {
		if o.Filters[k] != v {
			return false
		}
	}
	return true
}

// WithKeyword returns q with a new keyword and page 1.
func (q Query) WithKeyword(s string) Query {
	out := q.Clone()
	out.Keyword = s
	out.Page = 1
	return out
}

// WithFilter returns q with one filter changed; the page is kept.
func (q Query) WithFilter(name, value string) Query {
	out := q.Clone()
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	if value == "" {
		delete(out.Filters, name)
	} else {
		out.Filters[name] = value
	}
	return out
}

// WithPage returns q on another page.
func (q Query) WithPage(page int) Query {
	out := q.Clone()
	if page < 1 {
		page = 1
	}
	out.Page = page
	return out
}

// FromValues reads a query from URL values. Only the named filters are kept.
func FromValues(v url.Values, filters []string, defaultSize int) Query {
	q := Query{
		Keyword: strings.TrimSpace(v.Get("keyword")),
		Page:    atoiOr(v.Get("page"), 1),
		Size:    atoiOr(v.Get("size"), defaultSize),
	}
	for _, name := range filters {
		if val := strings.TrimSpace(v.Get(name)); val != "" {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[name] = val
		}
	}
	return q.normalize(defaultSize)
}

// Values encodes q as URL values.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, q.Filters[k])
	}
	return v
}

// Encode returns the query string for q.
func (q Query) Encode() string { return q.Values().Encode() }

func (q Query) normalize(defaultSize int) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = defaultSize
	}
	if q.Size > 100 {
		q.Size = 100
	}
	return q
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
