package api

import (
	"github.com/go-chi/chi/v5"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler     healthHandler
	authHandler       authHandler
	projectHandler    projectHandler
	blogHandler       blogHandler
	categoryHandler   categoryHandler
	experienceHandler experienceHandler
	uploadHandler     uploadHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, cfg router) *routeHandlers {
	db := deps.Database
	return &routeHandlers{
		healthHandler:     newHealthHandler(db, cfg),
		authHandler:       newAuthHandler(db.UserRepo(), deps.Tokens, cfg),
		projectHandler:    newProjectHandler(db.ProjectRepo(), cfg),
		blogHandler:       newBlogHandler(db.BlogRepo(), db.CategoryRepo(), cfg),
		categoryHandler:   newCategoryHandler(db.CategoryRepo(), cfg),
		experienceHandler: newExperienceHandler(db.ExperienceRepo(), cfg),
		uploadHandler:     newUploadHandler(deps.Storage, cfg),
	}
}

// setupRoutes registers public reads and token-gated writes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", handlers.authHandler.login())
		r.With(authMiddleware.authenticate).Get("/auth/me", handlers.authHandler.me())

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.listProjects())
			r.Get("/{id}", handlers.projectHandler.getProject())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.projectHandler.createProject())
				r.Patch("/{id}", handlers.projectHandler.updateProject())
				r.Delete("/{id}", handlers.projectHandler.deleteProject())
			})
		})

		r.Route("/blogs", func(r chi.Router) {
			r.Get("/", handlers.blogHandler.listBlogs())
			r.Get("/{id}", handlers.blogHandler.getBlog())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.blogHandler.createBlog())
				r.Patch("/{id}", handlers.blogHandler.updateBlog())
				r.Delete("/{id}", handlers.blogHandler.deleteBlog())
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handlers.categoryHandler.listCategories())
			r.Get("/{id}", handlers.categoryHandler.getCategory())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.categoryHandler.createCategory())
				r.Patch("/{id}", handlers.categoryHandler.updateCategory())
				r.Delete("/{id}", handlers.categoryHandler.deleteCategory())
			})
		})

		r.Route("/experiences", func(r chi.Router) {
			r.Get("/", handlers.experienceHandler.listExperiences())
			r.Get("/{id}", handlers.experienceHandler.getExperience())
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.authenticate)
				r.Post("/", handlers.experienceHandler.createExperience())
				r.Patch("/{id}", handlers.experienceHandler.updateExperience())
				r.Delete("/{id}", handlers.experienceHandler.deleteExperience())
			})
		})

		r.With(authMiddleware.authenticate).Post("/uploads", handlers.uploadHandler.upload())
	})
}
