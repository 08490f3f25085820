// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"path/filepath"

	"github.com/danielhkuo/danp-survey/auth"
	"github.com/danielhkuo/danp-survey/cliparse"
	"github.com/danielhkuo/danp-survey/handlers"
	"github.com/danielhkuo/danp-survey/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	verifier := auth.NewSharedSecret(cfg.AdminSecret)

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, verifier)
	exportHandler := handlers.NewExportHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)
	migrateHandler := handlers.NewMigrateHandler(db, cfg)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(verifier, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Survey (public)
	mux.HandleFunc("POST /api/survey/save", middleware.WithLogging(surveyHandler.Save))
	mux.HandleFunc("POST /api/survey/submit", middleware.WithLogging(surveyHandler.Submit))

	// Admin login (public, returns the bearer token)
	mux.HandleFunc("POST /api/admin/login", middleware.WithLogging(adminHandler.Login))

	// Response management (admin)
	mux.HandleFunc("GET /api/admin/responses", admin(adminHandler.ListResponses))
	mux.HandleFunc("GET /api/admin/response/{surveyId}", admin(adminHandler.GetResponse))
	mux.HandleFunc("DELETE /api/admin/response/{surveyId}", admin(adminHandler.DeleteResponse))

	// Exports (admin)
	mux.HandleFunc("GET /api/admin/export/json", admin(exportHandler.ExportJSON))
	mux.HandleFunc("GET /api/admin/export/dematel-csv", admin(exportHandler.ExportDematelCSV))
	mux.HandleFunc("GET /api/admin/export/anp-csv", admin(exportHandler.ExportANPCSV))

	// Statistics (admin)
	mux.HandleFunc("GET /api/admin/stats", admin(statsHandler.Stats))
	mux.HandleFunc("GET /api/admin/analytics", admin(statsHandler.Analytics))

	// Mirror migration (admin)
	mux.HandleFunc("POST /api/admin/migrate-to-mysql", admin(migrateHandler.Migrate))
	mux.HandleFunc("POST /api/admin/migrate", admin(migrateHandler.Migrate))

	// Pages
	mux.HandleFunc("GET /{$}", page(cfg.StaticDir, "survey.html"))
	mux.HandleFunc("GET /admin/login", page(cfg.StaticDir, "login.html"))
	mux.HandleFunc("GET /admin", page(cfg.StaticDir, "admin.html"))

	// Everything else under the static directory
	mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))

	return mux
}

func page(dir, name string) http.HandlerFunc {
	path := filepath.Join(dir, name)
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}
}
