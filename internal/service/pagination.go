package service

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// QuestionsPerPage is the fixed page size of every paginated listing
const QuestionsPerPage = 10

// ParsePage reads a 1-based page number from a query value. Absent or
// non-numeric input selects page 1; out-of-range integers keep their sign so
// they land outside the data rather than on the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil {
		return page
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(strings.TrimSpace(raw), "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	return 1
}

// Paginate returns the window [(page-1)*QuestionsPerPage, page*QuestionsPerPage)
// of items. Pages outside the data yield an empty, non-nil slice.
func Paginate[T any](items []T, page int) []T {
	pages := (len(items) + QuestionsPerPage - 1) / QuestionsPerPage
	if page < 1 || page > pages {
		return []T{}
	}
	start := (page - 1) * QuestionsPerPage
	end := min(start+QuestionsPerPage, len(items))
	return items[start:end]
}
