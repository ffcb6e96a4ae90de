// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 20

// MaxPageSize caps the size a request may ask for.
const MaxPageSize = 100

// SizeOptions are the page sizes offered in the table footer.
var SizeOptions = []int{10, 20, 50, 100}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	return parsePositive(query.Get(r, "page"), 1)
}

// ParseSize extracts the "size" query parameter, clamped to MaxPageSize.
func ParseSize(r *http.Request, def int) int {
	n := parsePositive(query.Get(r, "size"), def)
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Info holds the computed pagination values for a page of a list.
type Info struct {
	Page     int
	Size     int
	Total    int
	Pages    int
	Start    int // 1-based index of the first row shown (0 if no results)
	End      int // 1-based index of the last row shown (0 if no results)
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

// Compute derives Info from the current page, page size and backend total.
func Compute(page, size, total int) Info {
	if size < 1 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	pages := (total + size - 1) / size
	info := Info{Page: page, Size: size, Total: total, Pages: pages}
	if total > 0 {
		info.Start = (page-1)*size + 1
		info.End = info.Start + size - 1
		if info.End > total {
			info.End = total
		}
		if info.Start > total {
			info.Start, info.End = 0, 0
		}
	}
	info.HasPrev = page > 1
	info.HasNext = page < pages
	info.PrevPage = page - 1
	if info.PrevPage < 1 {
		info.PrevPage = 1
	}
	info.NextPage = page + 1
	if !info.HasNext {
		info.NextPage = page
	}
	return info
}
