package routes

import (
	"net/http"

	"docshub/internal/handlers"
	"docshub/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	documentHandler *handlers.DocumentHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	searchHandler *handlers.SearchHandler,
	settingsHandler *handlers.SettingsHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/documents/watch", documentHandler.Watch).Methods("GET")
	api.HandleFunc("/documents", documentHandler.List).Methods("GET")
	api.HandleFunc("/documents/{slug}", documentHandler.GetBySlug).Methods("GET")

	api.HandleFunc("/categories", taxonomyHandler.ListCategories).Methods("GET")
	api.HandleFunc("/tags", taxonomyHandler.ListTags).Methods("GET")

	api.HandleFunc("/search", searchHandler.GlobalSearch).Methods("GET")
	api.HandleFunc("/settings", settingsHandler.Get).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/documents", documentHandler.ListAdmin).Methods("GET")
	admin.HandleFunc("/documents", documentHandler.Create).Methods("POST")
	admin.HandleFunc("/documents/{id}", documentHandler.GetByID).Methods("GET")
	admin.HandleFunc("/documents/{id}", documentHandler.Update).Methods("PATCH")
	admin.HandleFunc("/documents/{id}", documentHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/documents/{id}/status", documentHandler.SetStatus).Methods(http.MethodPatch, http.MethodOptions)

	admin.HandleFunc("/categories", taxonomyHandler.CreateCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", taxonomyHandler.UpdateCategory).Methods("PATCH")
	admin.HandleFunc("/categories/{id}", taxonomyHandler.DeleteCategory).Methods("DELETE")

	admin.HandleFunc("/tags", taxonomyHandler.CreateTag).Methods("POST")
	admin.HandleFunc("/tags/{id}", taxonomyHandler.UpdateTag).Methods("PATCH")
	admin.HandleFunc("/tags/{id}", taxonomyHandler.DeleteTag).Methods("DELETE")

	admin.HandleFunc("/settings", settingsHandler.Update).Methods("PATCH")
}
