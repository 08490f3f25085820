// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the survey server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Survey (public):

	POST /api/survey/save   - Save progress (insert or overwrite)
	POST /api/survey/submit - Mark completed

Admin login (public):

	POST /api/admin/login - Exchange the password for a bearer token

Admin (requires Authorization: Bearer <token>):

	GET    /api/admin/responses             - List sessions
	GET    /api/admin/response/{surveyId}   - Full session
	DELETE /api/admin/response/{surveyId}   - Remove session
	GET    /api/admin/export/json           - Completed sessions as JSON
	GET    /api/admin/export/dematel-csv    - DEMATEL long-format CSV
	GET    /api/admin/export/anp-csv        - ANP long-format CSV
	GET    /api/admin/stats                 - Status counts
	GET    /api/admin/analytics             - Aggregate breakdowns
	POST   /api/admin/migrate-to-mysql      - Copy into the mirror database
	POST   /api/admin/migrate               - Same as above

Pages, served from cfg.StaticDir:

	GET /            - survey.html
	GET /admin/login - login.html
	GET /admin       - admin.html
	GET /<file>      - any other file in the directory

# Handler Initialization

The router creates handler instances with dependency injection:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, verifier)

Admin routes are wrapped with middleware.RequireAdmin using one
auth.SharedSecret built from cfg.AdminSecret.
*/
package router
