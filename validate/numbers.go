package validate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-api/errs"
)

const (
	MinYear      = 1900
	MaxYear      = 2100
	MinSortOrder = 0
	MaxSortOrder = 10000

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// IntRange validates a required integer within [lo, hi].
func IntRange(f Field[int], field string, lo, hi int) (int, error) {
	if !f.present() {
		return 0, errs.NewInvalidFieldError(field, "is required")
	}
	if f.Value < lo || f.Value > hi {
		return 0, errs.NewInvalidFieldError(field, fmt.Sprintf("must be an integer between %d and %d", lo, hi))
	}
	return f.Value, nil
}

// Year validates a required year between 1900 and 2100.
func Year(f Field[int], field string) (int, error) {
	return IntRange(f, field, MinYear, MaxYear)
}

// SortOrder validates an optional sort order, defaulting to 0.
func SortOrder(f Field[int], field string) (int, error) {
	if !f.present() {
		return MinSortOrder, nil
	}
	return IntRange(f, field, MinSortOrder, MaxSortOrder)
}

// Bool returns the supplied boolean, false when absent or null.
func Bool(f Field[bool]) bool {
	return f.present() && f.Value
}

// Page is a parsed offset-pagination request.
type Page struct {
	Page  int
	Limit int
	Skip  int
}

// TotalPages returns how many pages of p.Limit cover total rows.
func (p Page) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// Pagination reads page and limit from the query string.
// page defaults to 1 and must be an integer >= 1; limit defaults to 10 and must be within [1, 100].
func Pagination(q url.Values) (Page, error) {
	page, err := queryInt(q, "page", DefaultPage)
	if err != nil {
		return Page{}, err
	}
	if page < 1 {
		return Page{}, errs.NewInvalidFieldError("page", "must be an integer greater than or equal to 1")
	}

	limit, err := queryInt(q, "limit", DefaultLimit)
	if err != nil {
		return Page{}, err
	}
	if limit < 1 || limit > MaxLimit {
		return Page{}, errs.NewInvalidFieldError("limit", fmt.Sprintf("must be an integer between 1 and %d", MaxLimit))
	}

	return Page{Page: page, Limit: limit, Skip: (page - 1) * limit}, nil
}

func queryInt(q url.Values, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(key, "must be an integer")
	}
	return n, nil
}

// Chronology checks a start/end month pair against the current-position flag.
// It runs on the merged old and new state during partial updates.
func Chronology(startMonth string, endMonth *string, isCurrent bool) error {
	if isCurrent && endMonth != nil {
		return errs.NewInvalidFieldError("endMonth", "must be empty when isCurrent is true")
	}
	// YYYY-MM compares correctly as a string
	if endMonth != nil && *endMonth < startMonth {
		return errs.NewInvalidFieldError("endMonth", "must not be before startMonth")
	}
	return nil
}
