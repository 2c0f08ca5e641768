package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/api"
	apiMiddleware "github.com/MarcKarbowiak/meeting-action-extractor/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Content-Type",
			apiMiddleware.HeaderTenantID, apiMiddleware.HeaderUserID,
			apiMiddleware.HeaderUserEmail, apiMiddleware.HeaderUserRoles,
			apiMiddleware.HeaderFeatureFlags,
		},
		AllowCredentials: true,
	}))

	systemHandler := api.NewSystemHandler(app.config.Server.Mode)
	tenantHandler := api.NewTenantHandler(app.store, app.logger)
	noteHandler := api.NewNoteHandler(app.store, app.logger)
	taskHandler := api.NewTaskHandler(app.store, app.store, app.logger)

	identity := apiMiddleware.NewIdentityMiddleware(
		app.store,
		!app.config.Server.IsDevelopment(),
		app.flags,
		app.logger,
	)

	// Health check endpoint (public)
	r.Get("/health", systemHandler.Health)

	// Identity-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(identity.Authenticate)

		r.Get("/me", systemHandler.Me)

		r.Get("/tenants", tenantHandler.ListTenants)
		r.Post("/tenants", tenantHandler.CreateTenant)
		r.Get("/tenants/{id}/members", tenantHandler.ListMembers)
		r.Post("/tenants/{id}/members", tenantHandler.UpsertMember)

		r.Post("/notes", noteHandler.CreateNote)
		r.Get("/notes", noteHandler.ListNotes)
		r.Get("/notes/{id}", noteHandler.GetNote)
		r.Get("/notes/{id}/tasks", noteHandler.GetNoteTasks)
		r.Delete("/notes/{id}", noteHandler.DeleteNote)

		r.Get("/tasks", taskHandler.ListTasks)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Get("/tasks/export.csv", taskHandler.ExportTasksCSV)
	})

	return r
}
