package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/errs"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validate"
	"github.com/rs/zerolog"
)

type blogHandler struct {
	responder    Responder
	logger       zerolog.Logger
	bodyLimit    int64
	blogRepo     *database.BlogRepo
	categoryRepo *database.CategoryRepo
}

func newBlogHandler(blogRepo *database.BlogRepo, categoryRepo *database.CategoryRepo, cfg router) blogHandler {
	logger := cfg.logger.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder:    NewResponder(logger, cfg.production),
		logger:       logger,
		bodyLimit:    cfg.bodyLimitBytes,
		blogRepo:     blogRepo,
		categoryRepo: categoryRepo,
	}
}

type blogInput struct {
	Title       validate.Field[string]   `json:"title"`
	Description validate.Field[string]   `json:"description"`
	Images      validate.Field[[]string] `json:"images"`
	CategoryID  validate.Field[string]   `json:"categoryId"`
}

func (in blogInput) apply(b *models.Blog, creating bool) error {
	var err error
	if creating || in.Title.IsSet() {
		if b.Title, err = validate.String(in.Title, "title", 200); err != nil {
			return err
		}
	}
	if creating || in.Description.IsSet() {
		if b.Description, err = richText(in.Description, "description"); err != nil {
			return err
		}
	}
	if creating || in.Images.IsSet() {
		if b.Images, err = validate.URLList(in.Images, "images"); err != nil {
			return err
		}
	}
	if creating || in.CategoryID.IsSet() {
		raw, err := validate.String(in.CategoryID, "categoryId", 36)
		if err != nil {
			return err
		}
		if b.CategoryID, err = uuid.Parse(raw); err != nil {
			return errs.NewInvalidFieldError("categoryId", "must be a valid UUID")
		}
		b.Category = nil
	}
	return nil
}

// listBlogs supports ?search= on the title and ?categoryId=
func (h blogHandler) listBlogs() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		page, opts, err := listQuery(r)
		if err != nil {
			return err
		}

		blogOpts := database.BlogListOptions{ListOptions: opts}
		if raw := strings.TrimSpace(r.URL.Query().Get("categoryId")); raw != "" {
			categoryID, err := uuid.Parse(raw)
			if err != nil {
				return errs.NewInvalidFieldError("categoryId", "must be a valid UUID")
			}
			blogOpts.CategoryID = &categoryID
		}

		blogs, total, err := h.blogRepo.List(r.Context(), blogOpts)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, newListResponse(blogs, page, total))
		return nil
	})
}

func (h blogHandler) getBlog() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		blog, err := h.blogRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{blog})
		return nil
	})
}

func (h blogHandler) createBlog() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in blogInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}

		var blog models.Blog
		if err := in.apply(&blog, true); err != nil {
			return err
		}
		if err := h.requireCategory(r, blog.CategoryID); err != nil {
			return err
		}

		if err := h.blogRepo.Create(r.Context(), &blog); err != nil {
			return err
		}

		h.logger.Info().Str("blogID", blog.ID.String()).Msg("blog created")
		h.responder.WriteJSON(w, http.StatusCreated, dataResponse{blog})
		return nil
	})
}

func (h blogHandler) updateBlog() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var in blogInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}
		if !validate.AnySet(in.Title, in.Description, in.Images, in.CategoryID) {
			return errNoFields
		}

		blog, err := h.blogRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}
		if err := in.apply(blog, false); err != nil {
			return err
		}
		if in.CategoryID.IsSet() {
			if err := h.requireCategory(r, blog.CategoryID); err != nil {
				return err
			}
		}

		if err := h.blogRepo.Update(r.Context(), blog); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{blog})
		return nil
	})
}

func (h blogHandler) deleteBlog() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if err := h.blogRepo.Delete(r.Context(), id); err != nil {
			return err
		}

		h.responder.NoContent(w)
		return nil
	})
}

// requireCategory reports a missing category as a bad request rather than a 404.
func (h blogHandler) requireCategory(r *http.Request, id uuid.UUID) error {
	exists, err := h.categoryRepo.Exists(r.Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewInvalidFieldError("categoryId", "does not reference an existing category")
	}
	return nil
}
