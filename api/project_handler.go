package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/validate"
	"github.com/rs/zerolog"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	bodyLimit   int64
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo, cfg router) projectHandler {
	logger := cfg.logger.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger, cfg.production),
		logger:      logger,
		bodyLimit:   cfg.bodyLimitBytes,
		projectRepo: projectRepo,
	}
}

type projectInput struct {
	Title       validate.Field[string]               `json:"title"`
	Description validate.Field[string]               `json:"description"`
	Year        validate.Field[int]                  `json:"year"`
	Tags        validate.Field[[]string]             `json:"tags"`
	Client      validate.Field[string]               `json:"client"`
	Duration    validate.Field[string]               `json:"duration"`
	Challenge   validate.Field[string]               `json:"challenge"`
	Solution    validate.Field[string]               `json:"solution"`
	Outcome     validate.Field[string]               `json:"outcome"`
	Links       validate.Field[[]validate.LinkInput] `json:"links"`
	Images      validate.Field[[]string]             `json:"images"`
}

func (in projectInput) anySet() bool {
	return validate.AnySet(in.Title, in.Description, in.Year, in.Tags, in.Client, in.Duration,
		in.Challenge, in.Solution, in.Outcome, in.Links, in.Images)
}

// apply validates the supplied fields onto p. When creating, every field is validated so
// required ones that are absent fail.
func (in projectInput) apply(p *models.Project, creating bool) error {
	var err error
	if creating || in.Title.IsSet() {
		if p.Title, err = validate.String(in.Title, "title", 200); err != nil {
			return err
		}
	}
	if creating || in.Description.IsSet() {
		if p.Description, err = richText(in.Description, "description"); err != nil {
			return err
		}
	}
	if creating || in.Year.IsSet() {
		if p.Year, err = validate.Year(in.Year, "year"); err != nil {
			return err
		}
	}
	if creating || in.Tags.IsSet() {
		if p.Tags, err = validate.Tags(in.Tags, "tags"); err != nil {
			return err
		}
	}
	if creating || in.Client.IsSet() {
		if p.Client, err = validate.OptionalString(in.Client, "client", 120); err != nil {
			return err
		}
	}
	if creating || in.Duration.IsSet() {
		if p.Duration, err = validate.OptionalString(in.Duration, "duration", 120); err != nil {
			return err
		}
	}
	if creating || in.Challenge.IsSet() {
		if p.Challenge, err = optionalRichText(in.Challenge, "challenge"); err != nil {
			return err
		}
	}
	if creating || in.Solution.IsSet() {
		if p.Solution, err = optionalRichText(in.Solution, "solution"); err != nil {
			return err
		}
	}
	if creating || in.Outcome.IsSet() {
		if p.Outcome, err = optionalRichText(in.Outcome, "outcome"); err != nil {
			return err
		}
	}
	if creating || in.Links.IsSet() {
		links, err := validate.Links(in.Links, "links")
		if err != nil {
			return err
		}
		p.Links = toModelLinks(links)
	}
	if creating || in.Images.IsSet() {
		if p.Images, err = validate.URLList(in.Images, "images"); err != nil {
			return err
		}
	}
	return nil
}

// listProjects returns a page of projects, optionally filtered by ?search= on the title
func (h projectHandler) listProjects() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		page, opts, err := listQuery(r)
		if err != nil {
			return err
		}

		projects, total, err := h.projectRepo.List(r.Context(), opts)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, newListResponse(projects, page, total))
		return nil
	})
}

func (h projectHandler) getProject() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{project})
		return nil
	})
}

func (h projectHandler) createProject() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		var in projectInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}

		var project models.Project
		if err := in.apply(&project, true); err != nil {
			return err
		}

		if err := h.projectRepo.Create(r.Context(), &project); err != nil {
			return err
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteJSON(w, http.StatusCreated, dataResponse{project})
		return nil
	})
}

func (h projectHandler) updateProject() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		var in projectInput
		if err := decodeJSON(w, r, h.bodyLimit, &in); err != nil {
			return err
		}
		if !in.anySet() {
			return errNoFields
		}

		project, err := h.projectRepo.FindByID(r.Context(), id)
		if err != nil {
			return err
		}
		if err := in.apply(project, false); err != nil {
			return err
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			return err
		}

		h.responder.WriteJSON(w, http.StatusOK, dataResponse{project})
		return nil
	})
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return h.responder.Handle(func(w http.ResponseWriter, r *http.Request) error {
		id, err := pathID(r)
		if err != nil {
			return err
		}

		if err := h.projectRepo.Delete(r.Context(), id); err != nil {
			return err
		}

		h.logger.Info().Str("projectID", id.String()).Msg("project deleted")
		h.responder.NoContent(w)
		return nil
	})
}
