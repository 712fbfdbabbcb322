// Package server wires handlers, middleware and routes into an http.Handler.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mytheresa/catalog-admin/app/api"
	"github.com/mytheresa/catalog-admin/app/catalog"
	"github.com/mytheresa/catalog-admin/app/categories"
)

// Handlers groups what the router mounts.
type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	DB         Pinger
}

// NewRouter returns the API router. Everything except /health lives under /api.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(Recover)
	r.Use(middleware.CleanPath)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, r, api.NotFound("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusMethodNotAllowed, api.Envelope{Success: false, Message: "method not allowed"})
	})

	r.Get("/health", Health(h.DB))

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", h.Categories.HandleCreate)
			r.Get("/", h.Categories.HandleGetAll)
			r.Get("/{id}", h.Categories.HandleGet)
			r.Put("/{id}", h.Categories.HandleUpdate)
			r.Delete("/{id}", h.Categories.HandleDelete)
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.Catalog.HandleCreate)
			r.Get("/", h.Catalog.HandleGet)
			r.Post("/bulk", h.Catalog.HandleBulkUpload)
			r.Get("/bulk/template", h.Catalog.HandleTemplate)
			r.Get("/{id}", h.Catalog.HandleGetProduct)
			r.Put("/{id}", h.Catalog.HandleUpdate)
			r.Delete("/{id}", h.Catalog.HandleDelete)
		})
	})

	return r
}
