package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-api/errs"
)

// Per-entry length bounds for list fields
const (
	MaxTagLength       = 40
	MaxLinkLabelLength = 40
	MaxHighlightLength = 200
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// String validates a required string: present, non-empty after trimming, at most maxLen runes.
func String(f Field[string], field string, maxLen int) (string, error) {
	if !f.present() {
		return "", errs.NewInvalidFieldError(field, "is required")
	}
	return checkString(f.Value, field, maxLen)
}

// OptionalString passes absent and null values through as nil and applies
// the String rules to anything else.
func OptionalString(f Field[string], field string, maxLen int) (*string, error) {
	if !f.present() {
		return nil, nil
	}
	s, err := checkString(f.Value, field, maxLen)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func checkString(raw, field string, maxLen int) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errs.NewInvalidFieldError(field, "must not be empty")
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return "", errs.NewInvalidFieldError(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return s, nil
}

// URL validates a required absolute http or https URL.
func URL(f Field[string], field string) (string, error) {
	if !f.present() {
		return "", errs.NewInvalidFieldError(field, "is required")
	}
	return checkURL(f.Value, field)
}

// OptionalURL is URL with absent and null passed through as nil.
func OptionalURL(f Field[string], field string) (*string, error) {
	if !f.present() {
		return nil, nil
	}
	u, err := checkURL(f.Value, field)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func checkURL(raw, field string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errs.NewInvalidFieldError(field, "must not be empty")
	}
	if !IsHTTPURL(s) {
		return "", errs.NewInvalidFieldError(field, "must be an absolute http or https URL")
	}
	return s, nil
}

// IsHTTPURL reports whether s parses as an absolute URL with scheme http or https and a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// Month validates a required YYYY-MM value.
func Month(f Field[string], field string) (string, error) {
	if !f.present() {
		return "", errs.NewInvalidFieldError(field, "is required")
	}
	return checkMonth(f.Value, field)
}

// OptionalMonth is Month with absent and null passed through as nil.
func OptionalMonth(f Field[string], field string) (*string, error) {
	if !f.present() {
		return nil, nil
	}
	m, err := checkMonth(f.Value, field)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func checkMonth(raw, field string) (string, error) {
	s := strings.TrimSpace(raw)
	if !monthPattern.MatchString(s) {
		return "", errs.NewInvalidFieldError(field, "must be in YYYY-MM format")
	}
	return s, nil
}
