package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validate"
	"github.com/rs/zerolog"
)

type experienceHandler struct {
	responder      Responder
	logger         zerolog.Logger
	bodyLimit      int64
	experienceRepo *database.ExperienceRepo
}

func newExperienceHandler(experienceRepo *database.ExperienceRepo, cfg router) experienceHandler {
	logger := cfg.logger.With().Str("handlerName", "experienceHandler").Logger()

	return experienceHandler{
		responder:      NewResponder(logger, cfg.production),
		logger:         logger,
		bodyLimit:      cfg.bodyLimitBytes,
		experienceRepo: experienceRepo,
	}
}

type experienceInput struct {
	Company        validate.Field[string]               `json:"company"`
	Role           validate.Field[string]               `json:"role"`
	EmploymentType validate.Field[string]               `json:"employmentType"`
	Location       validate.Field[string]               `json:"location"`
	StartMonth     validate.Field[string]               `json:"startMonth"`
	EndMonth       validate.Field[string]               `json:"endMonth"`
	IsCurrent      validate.Field[bool]                 `json:"isCurrent"`
	Summary        validate.Field[string]               `json:"summary"`
	Highlights     validate.Field[[]string]             `json:"highlights"`
	TechTags       validate.Field[[]string]             `json:"techTags"`
	Links          validate.Field[[]validate.LinkInput] `json:"links"`
	SortOrder      validate.Field[int]                  `json:"sortOrder"`
}

func (in experienceInput) anySet() bool {
	return validate.AnySet(in.Company, in.Role, in.EmploymentType, in.Location, in.StartMonth, in.EndMonth,
		in.IsCurrent, in.Summary, in.Highlights, in.TechTags, in.Links, in.SortOrder)
}

// apply validates the supplied fields onto e, then checks chronology on the merged record.
func (in experienceInput) apply(e *models.Experience, creating bool) error {
	var err error
	if creating || in.Company.IsSet() {
		if e.Company, err = validate.String(in.Company, "company", 120); err != nil {
			return err
		}
	}
	if creating || in.Role.IsSet() {
		if e.Role, err = validate.String(in.Role, "role", 120); err != nil {
			return err
		}
	}
	if creating || in.EmploymentType.IsSet() {
		if e.EmploymentType, err = validate.OptionalString(in.EmploymentType, "employmentType", 120); err != nil {
			return err
		}
	}
	if creating || in.Location.IsSet() {
		if e.Location, err = validate.OptionalString(in.Location, "location", 120); err != nil {
			return err
		}
	}
	if creating || in.StartMonth.IsSet() {
		if e.StartMonth, err = validate.Month(in.StartMonth, "startMonth"); err != nil {
			return err
		}
	}
	if creating || in.EndMonth.IsSet() {
		if e.EndMonth, err = validate.OptionalMonth(in.EndMonth, "endMonth"); err != nil {
			return err
		}
	}
	if creating || in.IsCurrent.IsSet() {
		e.IsCurrent = validate.Bool(in.IsCurrent)
	}
	if creating || in.Summary.IsSet() {
		if e.Summary, err = richText(in.Summary, "summary"); err != nil {
			return err
		}
	}
	if creating || in.Highlights.IsSet() {
		if e.Highlights, err = validate.Highlights(in.Highlights, "highlights"); err != nil {
			return err
		}
	}
	if creating || in.TechTags.IsSet() {
		if e.TechTags, err = validate.Tags(in.TechTags, "techTags"); err != nil {
			return err
		}
	}
	if creating || in.Links.IsSet() {
		links, err := validate.Links(in.Links, "links")
		if err != nil {
			return err
		}
		e.Links = toModelLinks(links)
	}
	if creating || in.SortOrder.IsSet() {
		if e.SortOrder, err = validate.SortOrder(in.SortOrder, "sortOrder"); err != nil {
			return err
		}
	}
	return validate.Chronology(e.StartMonth, e.EndMonth, e.IsCurrent)
}

func (h experienceHandler) listExperiences() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		page, opts, err := listQuery(r)
		if err != nil {
			return err
		}

		experiences, total, err := h.experienceRepo.List(r.Context(), opts)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, newListResponse(experiences, page, total))
		return nil
	})
}

func (h experienceHandler) getExperience() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{experience})
		return nil
	})
}

func (h experienceHandler) createExperience() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in experienceInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}

		var experience models.Experience
		if err := in.apply(&experience, true); err != nil {
			return err
		}

		if err := h.experienceRepo.Create(r.Context(), &experience); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusCreated, dataResponse{experience})
		return nil
	})
}

// updateExperience merges the patch into the stored entry before the chronology check,
// so {"isCurrent":true} on an entry with an endMonth is rejected.
func (h experienceHandler) updateExperience() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var in experienceInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}
		if !in.anySet() {
			return errNoFields
		}

		experience, err := h.experienceRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}
		if err := in.apply(experience, false); err != nil {
			return err
		}

		if err := h.experienceRepo.Update(r.Context(), experience); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{experience})
		return nil
	})
}

func (h experienceHandler) deleteExperience() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if err := h.experienceRepo.Delete(r.Context(), id); err != nil {
			return err
		}

		h.responder.NoContent(w)
		return nil
	})
}
