package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-api/errs"
)

// Link is a labelled external URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// LinkInput is the request shape of a Link before validation.
type LinkInput struct {
	Label Field[string] `json:"label"`
	URL   Field[string] `json:"url"`
}

// StringList trims every entry, rejects empty or over-long entries, and drops
// case-insensitive duplicates keeping the first spelling seen. Absent or null yields an empty list.
func StringList(f Field[[]string], field string, maxLen int) ([]string, error) {
	out := []string{}
	if !f.present() {
		return out, nil
	}

	seen := make(map[string]struct{}, len(f.Value))
	for i, raw := range f.Value {
		entry := fmt.Sprintf("%s[%d]", field, i)
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, errs.NewInvalidFieldError(entry, "must not be empty")
		}
		if utf8.RuneCountInString(s) > maxLen {
			return nil, errs.NewInvalidFieldError(entry, fmt.Sprintf("must be at most %d characters", maxLen))
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// Tags validates a tag list.
func Tags(f Field[[]string], field string) ([]string, error) {
	return StringList(f, field, MaxTagLength)
}

// Highlights validates a highlight list.
func Highlights(f Field[[]string], field string) ([]string, error) {
	return StringList(f, field, MaxHighlightLength)
}

// URLList validates a list of absolute http/https URLs, dropping exact duplicates.
func URLList(f Field[[]string], field string) ([]string, error) {
	out := []string{}
	if !f.present() {
		return out, nil
	}

	seen := make(map[string]struct{}, len(f.Value))
	for i, raw := range f.Value {
		u, err := checkURL(raw, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

// Links validates labelled links and drops entries whose URL was already seen.
func Links(f Field[[]LinkInput], field string) ([]Link, error) {
	out := []Link{}
	if !f.present() {
		return out, nil
	}

	seen := make(map[string]struct{}, len(f.Value))
	for i, in := range f.Value {
		entry := fmt.Sprintf("%s[%d]", field, i)
		label, err := String(in.Label, entry+".label", MaxLinkLabelLength)
		if err != nil {
			return nil, err
		}
		u, err := URL(in.URL, entry+".url")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, Link{Label: label, URL: u})
	}
	return out, nil
}
