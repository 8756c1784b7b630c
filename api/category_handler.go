package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validate"
	"github.com/rs/zerolog"
)

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	bodyLimit    int64
	categoryRepo *database.CategoryRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo, cfg router) categoryHandler {
	logger := cfg.logger.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger, cfg.production),
		logger:       logger,
		bodyLimit:    cfg.bodyLimitBytes,
		categoryRepo: categoryRepo,
	}
}

type categoryInput struct {
	Name        validate.Field[string] `json:"name"`
	Description validate.Field[string] `json:"description"`
}

func (in categoryInput) apply(c *models.Category, creating bool) error {
	var err error
	if creating || in.Name.IsSet() {
		if c.Name, err = validate.String(in.Name, "name", 100); err != nil {
			return err
		}
	}
	if creating || in.Description.IsSet() {
		if c.Description, err = validate.OptionalString(in.Description, "description", 500); err != nil {
			return err
		}
	}
	return nil
}

func (h categoryHandler) listCategories() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		page, opts, err := listQuery(r)
		if err != nil {
			return err
		}

		categories, total, err := h.categoryRepo.List(r.Context(), opts)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, newListResponse(categories, page, total))
		return nil
	})
}

func (h categoryHandler) getCategory() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		category, err := h.categoryRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{category})
		return nil
	})
}

// createCategory relies on the unique index; a duplicate name surfaces as CONFLICT
func (h categoryHandler) createCategory() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in categoryInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}

		var category models.Category
		if err := in.apply(&category, true); err != nil {
			return err
		}

		if err := h.categoryRepo.Create(r.Context(), &category); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusCreated, dataResponse{category})
		return nil
	})
}

func (h categoryHandler) updateCategory() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var in categoryInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}
		if !validate.AnySet(in.Name, in.Description) {
			return errNoFields
		}

		category, err := h.categoryRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}
		if err := in.apply(category, false); err != nil {
			return err
		}

		if err := h.categoryRepo.Update(r.Context(), category); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{category})
		return nil
	})
}

// deleteCategory answers CONFLICT while blogs still belong to the category
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if err := h.categoryRepo.Delete(r.Context(), id); err != nil {
			return err
		}

		h.responder.NoContent(w)
		return nil
	})
}
