// Package listing implements the in-memory search path used by list endpoints:
// diacritic-insensitive matching, "field[,asc|desc]" sort specs and page slicing.
package listing

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, decomposes it (NFD) and strips combining marks,
// so "Álcool" and "alcool" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Contains reports whether needle occurs in haystack after normalization.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}

// Sort is a parsed sort specifier.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort is id ascending.
var DefaultSort = Sort{Field: "id"}

// ParseSort parses "field[,asc|desc]". Unknown or empty fields fall back to id asc.
func ParseSort(spec string, allowed ...string) Sort {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultSort
	}
	parts := strings.Split(spec, ",")
	field := strings.TrimSpace(parts[0])
	ok := false
	for _, a := range allowed {
		if a == field {
			ok = true
			break
		}
	}
	if !ok {
		return DefaultSort
	}
	s := Sort{Field: field}
	if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
		s.Desc = true
	}
	return s
}

// Page is one window of a filtered collection.
type Page[T any] struct {
	Content []T
	Total   int64
	Number  int
	Size    int
}

// ClampPage normalizes page (>= 0) and size (>= 1) and bounds page so the
// window offset fits in an int.
func ClampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	// page*size+size must not overflow; a capped page is still past any real data.
	if maxPage := (math.MaxInt - size) / size; page > maxPage {
		page = maxPage
	}
	return page, size
}

// Paginate slices items to the requested window. Total is always len(items).
func Paginate[T any](items []T, page, size int) Page[T] {
	page, size = ClampPage(page, size)
	total := len(items)
	from := page * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}
	content := make([]T, to-from)
	copy(content, items[from:to])
	return Page[T]{Content: content, Total: int64(total), Number: page, Size: size}
}

// Filter returns the items for which keep is true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Comparator orders two values: negative if a < b, zero if equal, positive otherwise.
type Comparator[T any] func(a, b T) int

// SortBy sorts items in place with the comparator registered for s.Field.
// Unknown fields use the "id" comparator. Stable, so equal keys keep their order.
func SortBy[T any](items []T, s Sort, comparators map[string]Comparator[T]) {
	cmp, ok := comparators[s.Field]
	if !ok {
		cmp, ok = comparators["id"]
		if !ok {
			return
		}
		s = DefaultSort
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

// MatchesAtivo reports whether ativo satisfies the optional filter.
func MatchesAtivo(filter *bool, ativo bool) bool {
	return filter == nil || *filter == ativo
}
