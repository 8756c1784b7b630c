package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/sanitize"
	"github.com/rpupo63/portfolio-api/validate"
)

// maxRichTextLength bounds every sanitized HTML field.
const maxRichTextLength = 20000

var errNoFields = errs.NewBadRequestError("at least one field must be provided")

// decodeJSON reads a single JSON object from a body capped at limit bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return err
			}
		}
		return errs.NewBadRequestError("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("id", "must be a valid UUID")
	}
	return id, nil
}

// listQuery parses page, limit and search from the query string.
func listQuery(r *http.Request) (validate.Page, database.ListOptions, error) {
	q := r.URL.Query()
	page, err := validate.Pagination(q)
	if err != nil {
		return validate.Page{}, database.ListOptions{}, err
	}
	return page, database.ListOptions{
		Offset: page.Skip,
		Limit:  page.Limit,
		Search: strings.TrimSpace(q.Get("search")),
	}, nil
}

func newListResponse[T any](items []T, page validate.Page, total int64) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Data: items,
		Meta: listMeta{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: page.TotalPages(total),
		},
	}
}

// richText validates a required HTML field and sanitizes it. Markup that sanitizes to nothing counts as empty.
func richText(f validate.Field[string], field string) (string, error) {
	raw, err := validate.String(f, field, maxRichTextLength)
	if err != nil {
		return "", err
	}
	clean := sanitize.HTML(raw)
	if clean == "" {
		return "", errs.NewInvalidFieldError(field, "must not be empty")
	}
	return clean, nil
}

// optionalRichText is richText for nullable fields; null or absent yields nil.
func optionalRichText(f validate.Field[string], field string) (*string, error) {
	raw, err := validate.OptionalString(f, field, maxRichTextLength)
	if err != nil || raw == nil {
		return nil, err
	}
	return sanitize.OptionalHTML(raw), nil
}

func toModelLinks(in []validate.Link) []models.Link {
	out := make([]models.Link, len(in))
	for i, l := range in {
		out[i] = models.Link(l)
	}
	return out
}
